package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/procs/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize procs configuration",
		Long: "Create the configuration directory and config.yaml, then create the output folder.\n" +
			"With --output-dir the folder is also recorded in config.yaml.",
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	outputDir, err := paths.ResolveOutputDir(flags.outputDir, loadOutputDirFromConfig(configDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve output dir: %w", err))
	}

	if err := ensureConfigDir(configDir); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if flags.outputDir != "" {
		if err := setConfigOutputDir(configPath, outputDir); err != nil {
			return sysError(fmt.Errorf("write config: %w", err))
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create output directory: %w", err))
	}

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, map[string]string{
			"config":     configPath,
			"output_dir": outputDir,
		})
	}
	fmt.Fprintln(out, "procs initialized successfully")
	fmt.Fprintf(out, "config: %s\noutput: %s\n", configPath, outputDir)
	return nil
}
