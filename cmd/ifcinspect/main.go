// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Command ifcinspect inspects STEP/IFC files: header metadata, the
// spatial containment tree, and representation geometry, and can
// export a model's geometry as an "IFCB" binary interchange frame.
package main

import (
	"os"

	"github.com/ifclite/ifclite/cmd/ifcinspect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
