package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

// rootInfo summarizes an open root.
type rootInfo struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	Backend   string    `json:"backend"`
	Format    string    `json:"format"`
	Version   []int     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Blocks    int       `json:"blocks"`
	Sections  int       `json:"sections"`
}

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <root>",
		Short: "Show the header and entity counts of a root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadOnly, func(f *pandora.File) error {
				info, err := describe(f)
				if err != nil {
					return fail("info", err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd, info)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:        %s\n", info.ID)
				fmt.Fprintf(out, "Location:  %s\n", info.Location)
				fmt.Fprintf(out, "Backend:   %s\n", info.Backend)
				fmt.Fprintf(out, "Format:    %s %v\n", info.Format, info.Version)
				fmt.Fprintf(out, "Created:   %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Updated:   %s\n", info.UpdatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Blocks:    %d\n", info.Blocks)
				fmt.Fprintf(out, "Sections:  %d\n", info.Sections)
				return nil
			})
		},
	}
}

func describe(f *pandora.File) (*rootInfo, error) {
	info := &rootInfo{ID: f.ID(), Location: f.Location(), Backend: string(f.Backend())}
	var err error
	if info.Format, err = f.Format(); err != nil {
		return nil, err
	}
	if info.Version, err = f.Version(); err != nil {
		return nil, err
	}
	if info.CreatedAt, err = f.CreatedAt(); err != nil {
		return nil, err
	}
	if info.UpdatedAt, err = f.UpdatedAt(); err != nil {
		return nil, err
	}
	if info.Blocks, err = f.BlockCount(); err != nil {
		return nil, err
	}
	sections, err := f.FindSections(pandora.AcceptAll, pandora.Unbounded)
	if err != nil {
		return nil, err
	}
	info.Sections = len(sections)
	return info, nil
}
