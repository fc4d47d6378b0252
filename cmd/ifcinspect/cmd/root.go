// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package cmd provides the ifcinspect CLI commands.
package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	noColor bool
	quiet   bool
)

// Execute runs the ifcinspect root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ifcinspect",
		Short:        "Inspect and extract geometry from STEP/IFC files",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color.NoColor = color.NoColor || noColor
		},
	}

	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newGeometryCmd())

	return root
}
