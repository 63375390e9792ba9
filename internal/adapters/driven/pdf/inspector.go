package pdf

import (
	"bytes"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.PageInspector = (*Inspector)(nil)

var disableConfigDir sync.Once

// Inspector reads PDF metadata with pdfcpu.
type Inspector struct {
	config *model.Configuration
}

// NewInspector creates an inspector using relaxed validation.
// pdfcpu's on-disk configuration directory is never created.
func NewInspector() *Inspector {
	disableConfigDir.Do(func() {
		model.ConfigPath = "disable"
	})
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{config: conf}
}

// PageCount returns the number of pages in content.
func (i *Inspector) PageCount(content []byte) (int, error) {
	if err := checkMagic(bytes.NewReader(content)); err != nil {
		return 0, domain.E(domain.KindCorruptInput, "counting pages", err)
	}
	n, err := api.PageCount(bytes.NewReader(content), i.config)
	if err != nil {
		return 0, domain.E(domain.KindCorruptInput, "counting pages", err)
	}
	return n, nil
}
