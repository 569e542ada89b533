package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

func (a *app) newSectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Manage metadata sections",
		Long: "Sections are addressed by slash-separated paths from the top level,\n" +
			"for example subject/implant. Each segment is a name or an id.",
	}
	cmd.AddCommand(a.newSectionCreateCmd(), a.newSectionDeleteCmd(), a.newSectionLinkCmd())
	return cmd
}

func (a *app) newSectionCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <root> <path> <type>",
		Short: "Create a section below an existing parent path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadWrite, func(f *pandora.File) error {
				parent, name, err := sectionParent(f, args[1])
				if err != nil {
					return err
				}
				var s *pandora.Section
				if parent == nil {
					s, err = f.CreateSection(name, args[2])
				} else {
					s, err = parent.CreateSection(name, args[2])
				}
				if err != nil {
					return fail("create section", err)
				}
				return a.printCreated(cmd, "section", s.ID())
			})
		},
	}
}

func (a *app) newSectionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <root> <path>",
		Short: "Delete a section with its subtree and clear links into it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadWrite, func(f *pandora.File) error {
				parent, name, err := sectionParent(f, args[1])
				if err != nil {
					return err
				}
				var ok bool
				if parent == nil {
					ok, err = f.DeleteSection(name)
				} else {
					ok, err = parent.DeleteSection(name)
				}
				if err != nil {
					return fail("delete section", err)
				}
				if !ok {
					return fail("delete section", fmt.Errorf("%w: %s", types.ErrNotFound, args[1]))
				}
				if a.flags.jsonMode {
					return printJSON(cmd, map[string]any{"deleted": args[1]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted section: %s\n", args[1])
				return nil
			})
		},
	}
}

func (a *app) newSectionLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <root> <path> [target-path]",
		Short: "Link a section to another one, or clear its link",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadWrite, func(f *pandora.File) error {
				s, err := sectionAt(f, args[1])
				if err != nil {
					return err
				}
				var target *pandora.Section
				if len(args) == 3 {
					if target, err = sectionAt(f, args[2]); err != nil {
						return err
					}
				}
				if err := s.SetLink(target); err != nil {
					return fail("link section", err)
				}

				link := ""
				if target != nil {
					link = target.ID()
				}
				if a.flags.jsonMode {
					return printJSON(cmd, map[string]string{"section": s.ID(), "link": link})
				}
				if link == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared link of %s\n", s.ID())
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Linked %s -> %s\n", s.ID(), link)
				}
				return nil
			})
		},
	}
}
