package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retro-snake/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying the config file, .env and
environment overrides and the difficulty preset. Tokens are redacted.

Copy the output to ~/.snake/configs/snake.yaml to customise the game.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}
