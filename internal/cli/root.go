// Package cli implements the apicache command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/briangreenhill/apicache/cache"
	"github.com/briangreenhill/apicache/internal/config"
)

const version = "0.1.0"

// app carries what every subcommand needs once flags and environment are
// resolved.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	out      io.Writer
	logLevel string
	cacheDir string
	noCache  bool
}

// NewRootCmd builds the command tree. Output goes to out, logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "apicache",
		Short:         "Conditional-request cache for REST API clients",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			if a.noCache {
				cfg.Cache.Mode = string(cache.ModeNone)
			} else if a.cacheDir != "" {
				cfg.Cache.Mode = string(cache.ModeDir)
				cfg.Cache.Dir = a.cacheDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: errOut}).
				Level(cfg.Level()).
				With().Timestamp().Logger()
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level (overrides APICACHE_LOG_LEVEL)")
	flags.StringVar(&a.cacheDir, "cache-dir", "", "cache under this existing directory")
	flags.BoolVar(&a.noCache, "no-cache", false, "disable caching")

	root.AddCommand(
		newPathCmd(a),
		newGetCmd(a),
		newReposCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print apicache version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(out, "apicache version %s\n", version)
			},
		},
	)
	return root
}

// Run executes the command line and returns the process exit code.
func Run() int {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) backend() (cache.Backend, error) {
	return a.cfg.Backend(a.log)
}
