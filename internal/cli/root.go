// Package cli implements the procs command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/procs/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	outputDir string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "procs" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "procs",
		Short: "Administer the PROCS questionnaire",
		Long: "procs administers the PROCS communication questionnaire in its speaker,\n" +
			"listener and general variants, saving each respondent's answers as a\n" +
			"CSV file in a folder of your choice.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.outputDir, "output-dir", "", "folder response files are saved to (default: working directory)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newTakeCmd())
	root.AddCommand(newSubmitCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newShowCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		printError(root.ErrOrStderr(), err)
	}
	os.Exit(exitCode(err))
}

// exitError carries an explicit exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps a command error onto the process exit code. Storage and
// unclassified failures are system errors; bad input is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch {
	case errors.Is(err, types.ErrStorage), errors.Is(err, types.ErrMalformedRecord):
		return exitSysError
	default:
		return exitUserError
	}
}

func printError(w io.Writer, err error) {
	var ee *exitError
	if errors.As(err, &ee) && ee.err == errSilent {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// errSilent marks an exit code that needs no message, such as check
// reporting an absent record.
var errSilent = errors.New("silent")
