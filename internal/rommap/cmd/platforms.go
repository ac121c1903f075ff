package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rommap/internal/platform"
)

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List known cartridge layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range platform.All() {
				window := "no pointer discovery"
				if p.CanDiscover() {
					window = fmt.Sprintf("window %08X-%08X", p.Window.Base, p.Window.Base+p.Window.Span-1)
				}
				fmt.Fprintf(out, "%-12s %-20s min %6d  %2d regions  %s\n",
					p.ID, p.Name, p.MinSize, len(p.Regions), window)
			}
			return nil
		},
	}
}
