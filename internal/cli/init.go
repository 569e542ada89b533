package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [root...]",
		Short: "Initialize configuration, the data directory and optionally roots",
		Long: "Write config.yaml if it is missing, create the data directory and create\n" +
			"every named root that does not exist yet. Existing roots are left as they are.",
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	dataDir, err := a.dataDir()
	if err != nil {
		return fail("resolve data dir", err)
	}

	configPath := filepath.Join(a.configDir(), configFileExt)
	written, err := writeConfigIfMissing(configPath, configFile{
		Backend:  string(a.backend()),
		DataDir:  dataDir,
		LogLevel: a.cfg.GetString(cfgKeyLogLevel),
	})
	if err != nil {
		return fail("write config", err)
	}
	if written {
		a.log.Info().Str("path", configPath).Msg("wrote config")
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fail("create data dir", err)
	}

	type initResult struct {
		Root string `json:"root"`
		ID   string `json:"id"`
	}
	var results []initResult
	for _, ref := range args {
		err := a.withRoot(ref, types.ReadWrite, func(f *pandora.File) error {
			results = append(results, initResult{Root: f.Location(), ID: f.ID()})
			return nil
		})
		if err != nil {
			return err
		}
	}

	if a.flags.jsonMode {
		return printJSON(cmd, map[string]any{
			"config":   configPath,
			"data_dir": dataDir,
			"roots":    results,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Pandora initialized successfully")
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.ID, r.Root)
	}
	return nil
}
