package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Progress runs fn while a spinner with the given suffix turns on stderr.
// In quiet mode fn runs without one.
func Progress(quiet bool, suffix string, fn func() error) error {
	return progressTo(quiet, os.Stderr, suffix, fn)
}

func progressTo(quiet bool, w io.Writer, suffix string, fn func() error) error {
	if quiet {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	s.Start()

	err := fn()
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("✗ "+suffix) + "\n"
	}
	s.Stop()
	return err
}
