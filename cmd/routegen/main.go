package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Output streams for status lines. Tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routegen",
		Short: "Generate React Router route tables from your file tree",
		Long: `routegen turns a directory of page components into a route table.

Files and folders under the route root map to routes:

  index.tsx        index route of its folder
  about.tsx        /about
  [id].tsx         /:id
  [...rest].tsx    /*
  _layout.tsx      wraps the routes of its folder

The generated module default-exports a RouteObject[] ready for
createBrowserRouter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default: nearest routegen.json/.yaml/.toml)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		genCmd(g),
		watchCmd(g),
		checkCmd(g),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig loads the explicit config file, or the nearest one above the
// working directory, or defaults for the working directory when there is
// none. Environment overrides are applied last.
func loadConfig(g *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if errors.Code(err) == errors.CodeConfigNotFound {
			wd, wdErr := os.Getwd()
			if wdErr != nil {
				return nil, wdErr
			}
			if g.verbose {
				info("No routegen config found, using defaults")
			}
			cfg, err = config.Default(wd), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a slog logger writing through charmbracelet/log. Verbose
// lowers the level to debug.
func newLogger(w io.Writer, level log.Level, verbose bool) *slog.Logger {
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "routegen",
	}))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(stdout, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(stdout, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Fprintf(stdout, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
