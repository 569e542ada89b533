package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

const modulePath = "github.com/G-Node/pandora"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pandora version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pandora v%s\nmodule: %s\nformat: %s %d.%d.%d\n",
				pandora.Version, modulePath, types.FormatName,
				types.FormatVersion[0], types.FormatVersion[1], types.FormatVersion[2])
			return nil
		},
	}
}
