package main

import (
	"fmt"

	"github.com/recera/lunk/internal/scenario"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios available to demo/inspect/watch",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.List() {
				s, err := scenario.Get(name)
				if err != nil {
					continue
				}
				fmt.Printf("%-16s %s\n", s.Name, s.Description)
			}
			return nil
		},
	}
}
