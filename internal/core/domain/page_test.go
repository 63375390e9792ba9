package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRange_Contains(t *testing.T) {
	all := AllPages()
	assert.True(t, all.Contains(0))
	assert.True(t, all.Contains(500))

	r := PageRange{From: 2, To: 4}
	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
}

func TestPageRange_Validate(t *testing.T) {
	assert.NoError(t, AllPages().Validate())
	assert.NoError(t, PageRange{From: 3, To: 3}.Validate())
	assert.True(t, errors.Is(PageRange{From: -1, To: 2}.Validate(), ErrInvalidInput))
	assert.True(t, errors.Is(PageRange{From: 5, To: 2}.Validate(), ErrInvalidInput))
}

func TestBookStem(t *testing.T) {
	assert.Equal(t, "aula", BookStem("aula"))
	assert.Equal(t, "aula", BookStem("aula.pdf"))
	assert.Equal(t, "aula", BookStem("books/aula.pdf"))
	assert.Equal(t, "nuevo.prisma", Book{Name: "nuevo.prisma.pdf"}.Stem())
}

func TestExtractionResult_Failed(t *testing.T) {
	assert.False(t, ExtractionResult{Text: "hola"}.Failed())
	assert.True(t, ExtractionResult{Err: ErrExtractionFailure}.Failed())
}
