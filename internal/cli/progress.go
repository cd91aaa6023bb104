package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements pipeline progress reporting with a progress bar.
type CLIProgressReporter struct {
	quiet       bool
	endpointBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnScanStart() {
	if c.quiet {
		return
	}
	log.Println("Scanning source files...")
}

func (c *CLIProgressReporter) OnScanComplete(sourceFiles, apiFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Scanned %d source files, %d contain endpoint definitions\n", sourceFiles, apiFiles)
}

func (c *CLIProgressReporter) OnDocumentationStart(totalEndpoints int) {
	if c.quiet {
		return
	}
	c.endpointBar = progressbar.NewOptions(totalEndpoints,
		progressbar.OptionSetDescription("Documenting endpoints"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("endpoints/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnEndpointDocumented(method, route string) {
	if c.quiet {
		return
	}
	if c.endpointBar != nil {
		c.endpointBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(endpoints int, elapsed time.Duration) {
	if c.quiet {
		return
	}
	if c.endpointBar != nil {
		c.endpointBar.Finish()
		c.endpointBar = nil
	}
	fmt.Printf("✓ Documented %d endpoints in %.1fs\n", endpoints, elapsed.Seconds())
}
