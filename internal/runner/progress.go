package runner

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress tracks how many functions have been structured.
type Progress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// NewProgress returns an interactive progress bar writing to stderr when
// enabled and stderr is a terminal, and a no-op tracker otherwise.
func NewProgress(enabled bool, description string, total int) Progress {
	if enabled && isInteractive(os.Stderr) {
		return newBar(os.Stderr, description, total)
	}
	return noopProgress{}
}

func newBar(w io.Writer, description string, total int) *barProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
	return &barProgress{bar: bar}
}

func isInteractive(f *os.File) bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Increment(n int) {
	_ = p.bar.Add(n)
}

func (p *barProgress) Describe(description string) {
	p.bar.Describe(description)
}

func (p *barProgress) Complete() {
	_ = p.bar.Finish()
}

type noopProgress struct{}

func (noopProgress) Increment(int) {}
func (noopProgress) Describe(string) {}
func (noopProgress) Complete() {}
