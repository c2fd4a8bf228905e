// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the orgsynth CLI.
//
// orgsynth generates a synthetic organisation: companies, their business
// units, employees and products, and the email traffic between employees.
// Every command can be run directly from the shell, typed at the
// interactive prompt (started when no command is given) or listed in a
// script file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/orgsynth/internal/secrets"
	"github.com/pdiddy/orgsynth/internal/session"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries the state shared by every command tree built during one
// process: the session, once set up, and the writers output goes to.
type app struct {
	out    io.Writer
	errOut io.Writer

	sess *session.Session
	log  *zap.Logger

	// inLoop is set while the interactive prompt or a script is running.
	inLoop bool

	// newRemote overrides the remote backend factory in tests.
	newRemote session.RemoteFactory

	// releaseInterrupt stops the process-wide interrupt handler. The prompt
	// calls it to handle interrupts per command instead.
	releaseInterrupt context.CancelFunc
}

// newRootCmd builds a complete command tree bound to a. The interactive
// prompt builds a fresh tree for every line so flag values never leak from
// one line into the next.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "orgsynth",
		Short: "Generate synthetic companies, employees and email traffic",
		Long: `orgsynth builds a synthetic organisation one entity at a time. Companies
own business units and products; employees belong to a unit; emails flow
between employees of the same or different companies.

Text is generated by a remote language model (Azure OpenAI, OpenAI,
Anthropic or Gemini). Pass --fast to any new command to use the local
generator instead, which needs no network access.

Run without a command to start the interactive prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil && !a.inLoop {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.inLoop {
				return cmd.Help()
			}
			return a.repl(cmd.Context())
		},
	}

	root.PersistentFlags().String("config", "", "config file (default: ./orgsynth.yaml or ~/.config/orgsynth/orgsynth.yaml)")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().Uint64("seed", 0, "seed for random choices and the local generator (0 picks one)")

	root.AddCommand(
		newNewCmd(a),
		newShowCmd(a),
		newUseCmd(a),
		newSaveCmd(a),
		newLoadCmd(a),
		newScriptCmd(a),
		newSetCmd(a),
		newVersionCmd(a),
	)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root
}

// setup reads configuration, builds the logger and creates the session.
// It runs once per process; trees built for later prompt lines reuse the
// session.
func (a *app) setup(cmd *cobra.Command) error {
	if a.sess != nil {
		return nil
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	if err := initConfig(cfgFile, a.errOut); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := newLogger(verbose || viper.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.log = log

	s, err := secrets.Load(".secrets/", log)
	if err != nil {
		return err
	}
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		log.Info("loaded secrets", zap.Strings("keys", keys))
	}

	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = viper.GetUint64("seed")
	}

	a.sess = session.New(session.Options{
		Out:     a.out,
		Log:     log,
		Config:  backendConfig(),
		Secrets: s,
		Seed:    seed,
		Remote:  a.newRemote,
	})
	log.Debug("session started", zap.String("version", version))
	return nil
}

// initConfig loads .env, then the config file, then the environment. A
// missing default config file is fine; an explicit or unreadable one is not.
func initConfig(cfgFile string, errOut io.Writer) error {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("orgsynth")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "orgsynth"))
		}
	}

	viper.SetEnvPrefix("ORGSYNTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	fmt.Fprintln(errOut, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// backendConfig reads the backend.* keys. Zero values are filled in later
// by BackendConfig.WithDefaults.
func backendConfig() types.BackendConfig {
	return types.BackendConfig{
		Provider:       types.Provider(strings.ToLower(viper.GetString("backend.provider"))),
		URI:            viper.GetString("backend.uri"),
		Key:            viper.GetString("backend.key"),
		Deployment:     viper.GetString("backend.deployment"),
		APIVersion:     viper.GetString("backend.api_version"),
		MaxRetries:     viper.GetInt("backend.max_retries"),
		TemperatureMin: viper.GetFloat64("backend.temperature_min"),
		TemperatureMax: viper.GetFloat64("backend.temperature_max"),
		HTTPRetries:    viper.GetInt("backend.http_retries"),
		Timeout:        viper.GetDuration("backend.timeout"),
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{out: os.Stdout, errOut: os.Stderr, releaseInterrupt: stop}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
