package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

func (a *app) newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage blocks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <root> <name> <type>",
		Short: "Create a block, creating the root if needed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadWrite, func(f *pandora.File) error {
				b, err := f.CreateBlock(args[1], args[2])
				if err != nil {
					return fail("create block", err)
				}
				return a.printCreated(cmd, "block", b.ID())
			})
		},
	})
	return cmd
}

// printCreated reports a new entity.
func (a *app) printCreated(cmd *cobra.Command, kind, id string) error {
	if a.flags.jsonMode {
		return printJSON(cmd, map[string]string{"kind": kind, "id": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", kind, id)
	return nil
}
