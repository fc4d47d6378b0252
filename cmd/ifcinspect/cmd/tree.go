// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifclite/ifclite"
)

func newTreeCmd() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "tree <file.ifc>",
		Short: "Print the spatial containment tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args[0], typeFilter)
		},
	}
	cmd.Flags().StringVar(&typeFilter, "search", "", "only print nodes whose name or type matches this substring")
	return cmd
}

func runTree(path, search string) error {
	model, err := openModel(path)
	if err != nil {
		return err
	}

	root := model.Spatial().SpatialTree()
	if root == nil {
		fmt.Println(yellowString("model declares no spatial structure"))
		return nil
	}

	var allow map[ifclite.EntityID]bool
	if search != "" {
		ids := model.Spatial().Search(search)
		allow = make(map[ifclite.EntityID]bool, len(ids))
		for _, id := range ids {
			allow[id] = true
		}
	}

	printNode(root, 0, allow)
	return nil
}

func printNode(n *ifclite.SpatialNode, depth int, allow map[ifclite.EntityID]bool) {
	if allow == nil || allow[n.ID] || hasAllowedDescendant(n, allow) {
		indent := strings.Repeat("  ", depth)
		label := n.Name
		if label == "" {
			label = n.EntityType
		}
		marker := ""
		if n.HasGeometry {
			marker = greenString(" [geometry]")
		}
		if n.Synthetic {
			marker += yellowString(" [synthetic]")
		}
		fmt.Printf("%s%s %s%s\n", indent, label, cyanString(fmt.Sprintf("#%d", n.ID)), marker)
	}
	for _, c := range n.Children {
		printNode(c, depth+1, allow)
	}
}

func hasAllowedDescendant(n *ifclite.SpatialNode, allow map[ifclite.EntityID]bool) bool {
	if allow == nil {
		return true
	}
	for _, c := range n.Children {
		if allow[c.ID] || hasAllowedDescendant(c, allow) {
			return true
		}
	}
	return false
}
