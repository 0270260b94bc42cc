package main

import (
	"fmt"

	"overseer/internal/bot"

	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy-commands",
	Short: "Register the slash commands with discord",
	Long: `Register the slash commands of the bot, replacing the ones registered before.
When DEV_GUILD_ID is set the commands are registered for that guild only and
show up at once, otherwise they are registered globally.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := cfg.ValidateDeploy(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		_, err := bot.DeployCommands(cfg.Discord.Token, cfg.Discord.ClientID, cfg.Discord.DevGuildID)
		return err
	},
}
