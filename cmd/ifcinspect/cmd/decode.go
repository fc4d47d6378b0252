// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ifclite/ifclite"
)

// cliLogger adapts ifclite.Logger to stderr, colored unless disabled.
type cliLogger struct{}

func (cliLogger) Warnf(format string, args ...any) {
	warn := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, yellowString("warning: ")+warn)
}

func showProgress() bool {
	return !quiet && isatty.IsTerminal(os.Stderr.Fd())
}

// openModel decodes path into an IfcModel, driving a progress bar on
// stderr while scanning and indexing unless --quiet was given or
// stderr isn't a terminal.
func openModel(path string) (*ifclite.IfcModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var bar *progressbar.ProgressBar
	progress := func(processed, total int) {
		if !showProgress() {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("indexing"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(processed)
	}

	model, err := ifclite.Decode(ifclite.Options{
		R:        f,
		Progress: progress,
		Logger:   cliLogger{},
	})
	if bar != nil {
		_ = bar.Finish()
	}
	return model, err
}
