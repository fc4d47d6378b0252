// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import "github.com/fatih/color"

var (
	greenString  = color.New(color.FgGreen).SprintFunc()
	yellowString = color.New(color.FgYellow).SprintFunc()
	redString    = color.New(color.FgRed).SprintFunc()
	cyanString   = color.New(color.FgCyan).SprintFunc()
	boldString   = color.New(color.Bold).SprintFunc()
)
