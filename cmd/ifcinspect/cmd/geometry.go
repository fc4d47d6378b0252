// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ifclite/ifclite"
)

func newGeometryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Extract geometry from a STEP/IFC file",
	}
	cmd.AddCommand(newGeometryDumpCmd())
	cmd.AddCommand(newGeometryMetadataCmd())
	return cmd
}

func newGeometryDumpCmd() *cobra.Command {
	var yUp bool

	cmd := &cobra.Command{
		Use:   "dump <file.ifc> <out.ifcb>",
		Short: "Decode every element's geometry and write an IFCB binary frame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeometryDump(args[0], args[1], yUp)
		},
	}
	cmd.Flags().BoolVar(&yUp, "y-up", false, "remap coordinates from the model's Z-up frame to Y-up before writing")
	return cmd
}

func runGeometryDump(inPath, outPath string, yUp bool) error {
	model, err := openModel(inPath)
	if err != nil {
		return err
	}

	ids := model.EntitiesWithGeometry()

	var bar *progressbar.ProgressBar
	if showProgress() {
		bar = progressbar.NewOptions(len(ids),
			progressbar.OptionSetDescription("geometry"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	results, err := model.BatchGeometry(ids)
	if err != nil {
		return err
	}

	meshes := make([]ifclite.EntityGeometry, 0, len(results))
	var failed int
	for _, r := range results {
		if bar != nil {
			_ = bar.Add(1)
		}
		if r.Err != nil {
			failed++
			continue
		}
		geom := r.Geometry
		if yUp {
			geom.Mesh = ifclite.RemapYUp(geom.Mesh)
		}
		meshes = append(meshes, geom)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := ifclite.WriteIFCBFrame(out, meshes); err != nil {
		return err
	}

	fmt.Printf("%s %d meshes written (%d failed) to %s\n", greenString("ok:"), len(meshes), failed, outPath)
	return nil
}

func newGeometryMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata <file.ifc>",
		Short: "Print per-entity metadata (id, type, name, storey) as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeometryMetadata(args[0])
		},
	}
	return cmd
}

func runGeometryMetadata(path string) error {
	model, err := openModel(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(model.EntityMetadataAll())
}
