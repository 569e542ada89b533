package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <root>",
		Short: "Check a root for inconsistencies",
		Long:  "Exits with status 1 when errors are found. Warnings alone do not fail.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadOnly, func(f *pandora.File) error {
				res, err := f.Validate()
				if err != nil {
					return fail("validate", err)
				}

				errs, warns := messages(res.Errors()), messages(res.Warnings())
				if a.flags.jsonMode {
					if err := printJSON(cmd, map[string]any{"ok": res.OK(), "errors": errs, "warnings": warns}); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					for _, m := range errs {
						fmt.Fprintln(out, "error:  ", m)
					}
					for _, m := range warns {
						fmt.Fprintln(out, "warning:", m)
					}
					fmt.Fprintf(out, "%d errors, %d warnings\n", len(errs), len(warns))
				}

				if !res.OK() {
					return &exitError{code: exitUserError, err: fmt.Errorf("%s: %d validation errors", args[0], len(errs))}
				}
				return nil
			})
		},
	}
}

func messages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
