// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.ifc>",
		Short: "Print header metadata, unit scale, and entity counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
	return cmd
}

func runInspect(path string) error {
	model, err := openModel(path)
	if err != nil {
		return err
	}

	meta := model.Metadata
	fmt.Printf("%s %s\n", boldString("schema:"), meta.SchemaVersion)
	if meta.FileName != "" {
		fmt.Printf("%s %s\n", boldString("file:"), meta.FileName)
	}
	if meta.OriginatingSystem != "" {
		fmt.Printf("%s %s\n", boldString("originating system:"), meta.OriginatingSystem)
	}
	if meta.Author != "" {
		fmt.Printf("%s %s\n", boldString("author:"), meta.Author)
	}
	if meta.Organization != "" {
		fmt.Printf("%s %s\n", boldString("organization:"), meta.Organization)
	}
	if meta.Timestamp != "" {
		fmt.Printf("%s %s\n", boldString("timestamp:"), meta.Timestamp)
	}
	fmt.Printf("%s %d\n", boldString("entities:"), model.EntityCount())
	fmt.Printf("%s %g meters/unit\n", boldString("unit scale:"), model.UnitScale())

	storeys := model.Spatial().Storeys()
	fmt.Printf("%s %d\n", boldString("storeys:"), len(storeys))
	for _, s := range storeys {
		fmt.Printf("  %s %s %s elevation=%g elements=%d\n",
			greenString("-"), s.Name, cyanString(fmt.Sprintf("#%d", s.ID)), s.Elevation, s.ElementCount)
	}

	return nil
}
