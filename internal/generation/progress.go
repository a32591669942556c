package generation

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// newProgressBar builds the per-symbol progress bar, or returns nil when
// disabled. It renders on stderr so output redirection stays clean; Add is
// safe to call from concurrent workers.
func newProgressBar(total int, enabled bool) *progressbar.ProgressBar {
	if !enabled {
		return nil
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("simulating symbols"),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
