// Package cli wires the mcpgate command tree.
package cli

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/interop-desk/mcpgate/internal/config"
)

// NewRootCmd creates the mcpgate root command.
func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcpgate",
		Short: "MCP tool-invocation gateway for the trading desktop",
		Long: `mcpgate runs the session-scoped MCP gateway and the conversational
agent service for the multi-panel trading desktop.

Available subcommands:
  serve       Run the MCP gateway
  agent       Run the conversational agent service
  symbols     Print the symbol mapping table

Examples:
  mcpgate serve
  mcpgate serve --config mcpgate.yaml
  mcpgate agent --config mcpgate.yaml
  mcpgate symbols`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (optional)")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newAgentCmd(&configPath))
	cmd.AddCommand(newSymbolsCmd())

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}
