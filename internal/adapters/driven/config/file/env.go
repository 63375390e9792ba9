package file

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the dotenv file read from the config directory.
const EnvFileName = ".env"

// LoadEnv loads <configDir>/.env into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadEnv(configDir string) error {
	path := filepath.Join(configDir, EnvFileName)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
