package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"

	"github.com/custodia-labs/studydeck/internal/core/domain"
)

// pageBar renders parse progress, one step per visited page.
type pageBar struct {
	bar *progressbar.ProgressBar
}

func newPageBar(w io.Writer, description string) *pageBar {
	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &pageBar{bar: bar}
}

// Observe is a parse progress callback.
func (p *pageBar) Observe(progress domain.PageProgress) {
	if p.bar.GetMax64() != int64(progress.Total) {
		p.bar.ChangeMax64(int64(progress.Total))
	}
	p.bar.Describe(fmt.Sprintf("page %d %s", progress.Index, progress.Outcome))
	_ = p.bar.Add(1)
}

func (p *pageBar) Finish() {
	_ = p.bar.Finish()
}

// withSpinner shows message on w while fn runs.
func withSpinner(w io.Writer, message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}
