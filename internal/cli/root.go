package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	token      string
	port       string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}

	cmd := &cobra.Command{
		Use:   "quiz-bot",
		Short: "Discord quiz bot with timed rounds, scoring and leaderboards",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&token, "token", os.Getenv("DISCORD_TOKEN"), "Discord bot token (overrides config)")
	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port for the live score feed")
	cmd.AddCommand(NewStartCmd(&configPath, &token, &port))
	return cmd
}
