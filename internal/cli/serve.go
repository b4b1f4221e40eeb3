package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/procs/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the questionnaire to a local browser",
		Long: "Start the web questionnaire on a loopback address. Each browser gets its\n" +
			"own session; responses are saved to the folder entered on the start page.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.GetString(cfgKeyAddr)
			}

			h, err := web.NewServer(web.Config{
				Store:         a.store,
				Picker:        a.picker,
				Instruments:   a.catalog,
				DefaultFolder: a.outputDir,
				Logger:        a.log,
			})
			if err != nil {
				return sysError(fmt.Errorf("build server: %w", err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "PROCS questionnaire at http://%s (ctrl+c to stop)\n", addr)
			if err := web.ListenAndServe(ctx, addr, h, a.log); err != nil {
				a.log.Error("server stopped", zap.Error(err))
				return sysError(fmt.Errorf("serve %s: %w", addr, err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: "+defaultAddr+")")
	return cmd
}
