package pdf

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

func TestInspector_RejectsNonPDF(t *testing.T) {
	_, err := NewInspector().PageCount([]byte("plain text"))
	assert.True(t, errors.Is(err, domain.ErrCorruptInput))
}

func TestInspector_RejectsTruncatedPDF(t *testing.T) {
	_, err := NewInspector().PageCount([]byte("%PDF-1.7\n"))
	assert.True(t, errors.Is(err, domain.ErrCorruptInput))
}

func TestInspector_CountsPages(t *testing.T) {
	path := writeFixturePDF(t, t.TempDir(), "libro.pdf", 3)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	n, err := NewInspector().PageCount(data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
