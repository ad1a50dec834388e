package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clonectl/internal/clone"
	"clonectl/internal/config"
	"clonectl/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	prettyOut  bool
	strictExit bool

	// Set up by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
	client *clone.Client
)

// errRemoteFailed marks a remote failure that has already been printed.
var errRemoteFailed = errors.New("remote operation failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clone",
	Short: "Coordinate with other clones through a shared server",
	Long: `clone talks to a coordination server shared by many agents ("clones").

It broadcasts messages, stores and reads shared facts, and takes part in a
task queue: fetch-task consumes one task, list-tasks shows every queued
task without consuming any.

Configuration comes from ~/.clone/config.yaml (or --config / CLONE_CONFIG),
overridden by CLONE_SERVER_URL and CLONE_ID.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Help never needs a server
		if cmd == cmd.Root() || cmd.Name() == "help" {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand or an unknown one: show usage
		return cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.clone/config.yaml or CLONE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&prettyOut, "pretty", false, "Indent JSON collections")
	rootCmd.PersistentFlags().BoolVar(&strictExit, "strict-exit", false, "Exit non-zero when the server reports an error")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(memoriesCmd)
	rootCmd.AddCommand(fetchTaskCmd)
	rootCmd.AddCommand(listTasksCmd)
	rootCmd.AddCommand(submitResultCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errRemoteFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and the protocol client.
// Precedence: flags > environment > config file > defaults.
func setup(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pretty") {
		loaded.Output.Pretty = prettyOut
	}
	if cmd.Flags().Changed("strict-exit") {
		loaded.Output.StrictExit = strictExit
	}
	cfg = loaded

	logger, err = logging.New(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	logging.Get(logger, logging.CategoryBoot).Debug("configuration loaded",
		zap.String("path", path),
		zap.String("server", cfg.Server.BaseURL),
		zap.String("clone", cfg.Clone.ID),
	)

	client, err = clone.NewFromConfig(cfg, logger)
	return err
}
