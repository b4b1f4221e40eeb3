package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/procs/internal/instrument"
	"github.com/mesh-intelligence/procs/internal/paths"
	"github.com/mesh-intelligence/procs/internal/session"
	"github.com/mesh-intelligence/procs/internal/store"
	"github.com/mesh-intelligence/procs/pkg/types"
)

// app is the wiring shared by the commands: resolved directories, config,
// logger, question sets and storage.
type app struct {
	cfg       *viper.Viper
	log       *zap.Logger
	configDir string
	outputDir string
	catalog   *instrument.Catalog
	store     *store.Store
	picker    *store.PathPicker
}

// newApp resolves directories, loads config and builds the logger. With
// quiet set the logger discards everything, which keeps the terminal UI
// clean.
func newApp(quiet bool) (*app, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, sysError(err)
	}
	outputDir, err := paths.ResolveOutputDir(flags.outputDir, cfg.GetString(cfgKeyOutputDir))
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve output dir: %w", err))
	}

	log := zap.NewNop()
	if !quiet {
		if log, err = newLogger(cfg.GetString(cfgKeyLogLevel), flags.verbose); err != nil {
			return nil, userError(err)
		}
	}

	catalog, err := loadCatalog(cfg.GetString(cfgKeyInstrumentsFile))
	if err != nil {
		return nil, userError(err)
	}

	log.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("output_dir", outputDir))

	return &app{
		cfg:       cfg,
		log:       log,
		configDir: configDir,
		outputDir: outputDir,
		catalog:   catalog,
		store:     store.New(log),
		picker:    store.NewPathPicker(outputDir),
	}, nil
}

func loadCatalog(path string) (*instrument.Catalog, error) {
	if path == "" {
		return instrument.Default()
	}
	return instrument.LoadFile(path)
}

// close flushes the logger.
func (a *app) close() {
	_ = a.log.Sync()
}

// controller returns a session controller over the app's storage.
func (a *app) controller() *session.Controller {
	return session.New(session.Config{
		Store:       a.store,
		Picker:      a.picker,
		Instruments: a.catalog,
		Logger:      a.log,
	})
}

// outputFolder opens the resolved output directory.
func (a *app) outputFolder(ctx context.Context) (types.Directory, error) {
	return a.picker.PickDirectory(ctx, a.outputDir)
}

// addRoleFlag registers --role on cmd.
func addRoleFlag(cmd *cobra.Command, role *string) {
	cmd.Flags().StringVarP(role, "role", "r", string(types.RoleSpeaker), "respondent role: speaker, listener or general")
}

func parseRoleFlag(s string) (types.Role, error) {
	role, err := types.ParseRole(s)
	if err != nil {
		return "", userError(fmt.Errorf("--role %q: %w", s, err))
	}
	return role, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}
