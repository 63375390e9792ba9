package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change LLM profiles, the data directory, the log level and the
OCR client settings. Settings are stored in config.toml in the settings
directory.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configAddLLMCmd = &cobra.Command{
	Use:   "add-llm [name]",
	Short: "Add or replace an LLM profile",
	Long: `Stores a named LLM profile. The first profile added becomes the default.

Providers: ollama, openai, anthropic. When the provider needs an API key and
none is given, the key is read from the terminal without echo. Leave it
empty to use OPENAI_API_KEY or ANTHROPIC_API_KEY from the environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigAddLLM,
}

var configRemoveLLMCmd = &cobra.Command{
	Use:   "remove-llm [name]",
	Short: "Remove an LLM profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigRemoveLLM,
}

var configSetDefaultLLMCmd = &cobra.Command{
	Use:   "set-default-llm [name]",
	Short: "Select the profile used when --llm is not given",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetDefaultLLM,
}

var configListLLMsCmd = &cobra.Command{
	Use:   "list-llms",
	Short: "List LLM profiles",
	Args:  cobra.NoArgs,
	RunE:  runConfigListLLMs,
}

var configTestLLMCmd = &cobra.Command{
	Use:   "test-llm [name]",
	Short: "Check that an LLM profile is reachable",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTestLLM,
}

var configGetDataDirCmd = &cobra.Command{
	Use:   "get-data-dir",
	Short: "Print the data directory",
	Args:  cobra.NoArgs,
	RunE:  runConfigGetDataDir,
}

var configSetDataDirCmd = &cobra.Command{
	Use:   "set-data-dir [dir]",
	Short: "Change the data directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetDataDir,
}

var configGetSettingsDirCmd = &cobra.Command{
	Use:   "get-settings-dir",
	Short: "Print the settings directory",
	Args:  cobra.NoArgs,
	RunE:  runConfigGetSettingsDir,
}

var configSetLogLevelCmd = &cobra.Command{
	Use:       "set-log-level [level]",
	Short:     "Set the minimum log level",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"debug", "info", "warn", "error"},
	RunE:      runConfigSetLogLevel,
}

var configSetOCRCmd = &cobra.Command{
	Use:   "set-ocr [key] [value]",
	Short: "Change an OCR client setting",
	Long: `Changes one setting of the OCR service client.

Keys:
  base_url           service URL, e.g. http://localhost:8000
  model              model used by the service
  strategy           extraction strategy, e.g. llama_vision
  storage_profile    storage profile name
  cache              reuse cached results (true/false)
  poll_interval      wait between task polls, e.g. 1s
  poll_max_interval  cap on the wait when backing off (0 = none)
  poll_backoff       factor applied to the wait after each poll (>= 1)
  poll_max_attempts  polls before giving up (0 = unbounded)
  poll_timeout       total wait per page (0 = none)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSetOCR,
}

// Flags.
var (
	llmProvider  string
	llmModel     string
	llmBaseURL   string
	llmAPIKey    string
	llmStopWords []string
)

func init() {
	configAddLLMCmd.Flags().StringVar(&llmProvider, "provider", "", "provider: ollama, openai or anthropic")
	configAddLLMCmd.Flags().StringVar(&llmModel, "model", "", "model name (provider default if empty)")
	configAddLLMCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "override the provider endpoint")
	configAddLLMCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "API key for cloud providers")
	configAddLLMCmd.Flags().StringSliceVar(&llmStopWords, "stop-word", nil, "stop sequence (repeatable)")
	_ = configAddLLMCmd.MarkFlagRequired("provider")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configAddLLMCmd)
	configCmd.AddCommand(configRemoveLLMCmd)
	configCmd.AddCommand(configSetDefaultLLMCmd)
	configCmd.AddCommand(configListLLMsCmd)
	configCmd.AddCommand(configTestLLMCmd)
	configCmd.AddCommand(configGetDataDirCmd)
	configCmd.AddCommand(configSetDataDirCmd)
	configCmd.AddCommand(configGetSettingsDirCmd)
	configCmd.AddCommand(configSetLogLevelCmd)
	configCmd.AddCommand(configSetOCRCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("Settings file: %s\n", settingsService.ConfigPath())
	cmd.Printf("Data dir:      %s\n", settings.DataDir)
	cmd.Printf("Log level:     %s\n", settings.LogLevel)
	cmd.Println()

	cmd.Println("[LLM]")
	if len(settings.LLMs) == 0 {
		cmd.Println("  (none configured, add one with 'studydeck config add-llm')")
	}
	for _, name := range settings.LLMNames() {
		printProfile(cmd, settings.LLMs[name], name == settings.DefaultLLM)
	}
	cmd.Println()

	ocr := settings.OCR
	cmd.Println("[OCR]")
	cmd.Printf("  Base URL: %s\n", ocr.BaseURL)
	cmd.Printf("  Model: %s\n", ocr.Model)
	cmd.Printf("  Strategy: %s\n", ocr.Strategy)
	cmd.Printf("  Storage profile: %s\n", ocr.StorageProfile)
	cmd.Printf("  Cache: %t\n", ocr.Cache)
	cmd.Printf("  Poll: every %s, backoff %.2g, max interval %s, max attempts %d, timeout %s\n",
		ocr.PollInterval, ocr.PollBackoff, ocr.PollMaxInterval, ocr.MaxPolls, ocr.PollTimeout)
	return nil
}

func printProfile(cmd *cobra.Command, p domain.LLMProfile, isDefault bool) {
	marker := ""
	if isDefault {
		marker = " (default)"
	}
	cmd.Printf("  %s%s\n", p.Name, marker)
	cmd.Printf("    Provider: %s\n", p.Provider.Description())
	cmd.Printf("    Model: %s\n", p.Model)
	if p.BaseURL != "" {
		cmd.Printf("    Base URL: %s\n", p.BaseURL)
	}
	if p.Provider.RequiresAPIKey() {
		if p.APIKey != "" {
			cmd.Printf("    API Key: %s\n", maskAPIKey(p.APIKey))
		} else {
			cmd.Printf("    API Key: (from %s)\n", p.Provider.APIKeyEnv())
		}
	}
	if len(p.StopWords) > 0 {
		cmd.Printf("    Stop words: %s\n", strings.Join(p.StopWords, ", "))
	}
}

func runConfigAddLLM(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	profile := domain.LLMProfile{
		Name:      args[0],
		Provider:  domain.AIProvider(strings.ToLower(llmProvider)),
		Model:     llmModel,
		BaseURL:   strings.TrimRight(llmBaseURL, "/"),
		APIKey:    llmAPIKey,
		StopWords: llmStopWords,
	}
	if profile.APIKey == "" && profile.Provider.RequiresAPIKey() && os.Getenv(profile.Provider.APIKeyEnv()) == "" {
		cmd.Printf("API key for %s (leave empty to use %s): ", profile.Provider, profile.Provider.APIKeyEnv())
		profile.APIKey = readPassword()
		cmd.Println()
	}

	if err := settingsService.AddLLM(profile); err != nil {
		return err
	}
	cmd.Printf("LLM %q added.\n", profile.Name)
	return nil
}

func runConfigRemoveLLM(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.RemoveLLM(args[0]); err != nil {
		return err
	}
	cmd.Printf("LLM %q removed.\n", args[0])
	return nil
}

func runConfigSetDefaultLLM(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetDefaultLLM(args[0]); err != nil {
		return err
	}
	cmd.Printf("LLM %q set as default.\n", args[0])
	return nil
}

func runConfigListLLMs(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	if len(settings.LLMs) == 0 {
		cmd.Println("No LLMs configured.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROVIDER\tMODEL\tDEFAULT")
	for _, name := range settings.LLMNames() {
		p := settings.LLMs[name]
		def := ""
		if name == settings.DefaultLLM {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Provider, p.Model, def)
	}
	return w.Flush()
}

func runConfigTestLLM(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	if err := settingsService.ValidateLLMConfig(cmd.Context(), name); err != nil {
		return err
	}
	cmd.Println("LLM is reachable.")
	return nil
}

func runConfigGetDataDir(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	cmd.Println(settings.DataDir)
	return nil
}

func runConfigSetDataDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetDataDir(args[0]); err != nil {
		return err
	}
	cmd.Printf("Data directory set to %s\n", args[0])
	return nil
}

func runConfigGetSettingsDir(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(filepath.Dir(settingsService.ConfigPath()))
	return nil
}

func runConfigSetLogLevel(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	level := domain.LogLevel(strings.ToLower(args[0]))
	if err := settingsService.SetLogLevel(level); err != nil {
		return err
	}
	cmd.Printf("Logging level set to %s\n", level)
	return nil
}

func runConfigSetOCR(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key := strings.TrimPrefix(args[0], "ocr.")
	if err := settingsService.SetOCR(key, args[1]); err != nil {
		return err
	}
	cmd.Printf("ocr.%s set to %s\n", key, args[1])
	return nil
}

func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
