// Package main is the entry point for the target platform service.
//
// The binary hosts the Linux target platform module: it keeps the device
// registry of every variant in sync with the engine config store, answers
// format negotiation queries over HTTP, and relays device events to MQTT,
// InfluxDB, WebSocket clients and the SQLite history.
//
// Subcommands other than serve run one operation against the same config
// store and exit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	// Registers the embedded SQL migrations with the database package.
	_ "github.com/nerrad567/targetplatform/migrations"
)

// Version information, set at build time via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const (
	// defaultConfigPath is used when neither --config nor the environment
	// names a file.
	defaultConfigPath = "configs/config.yaml"

	// configPathEnv overrides the default config path.
	configPathEnv = "TARGETPLATFORM_CONFIG"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// cli carries the flags shared by every subcommand.
type cli struct {
	configFlag string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "targetplatform",
		Short: "Linux target platform device registry and format negotiation",
		Long: `targetplatform manages the deployment devices of every Linux target
variant and decides which texture, shader and audio formats each variant
is cooked with.

Run "targetplatform serve" to host the HTTP API and event relay, or use
the other commands for one-off queries against the same config store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.configFlag, "config", "c", "",
		"config file (default $"+configPathEnv+" or "+defaultConfigPath+")")

	root.AddCommand(
		c.serveCmd(),
		c.variantsCmd(),
		c.devicesCmd(),
		c.formatsCmd(),
		c.eventsCmd(),
		c.migrateCmd(),
		versionCmd(),
	)
	return root
}

// configPath returns the --config flag if set, then TARGETPLATFORM_CONFIG,
// then the default.
func (c *cli) configPath() string {
	if c.configFlag != "" {
		return c.configFlag
	}
	return getConfigPath()
}

// getConfigPath returns the configuration file path.
// Uses TARGETPLATFORM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}
	return defaultConfigPath
}
