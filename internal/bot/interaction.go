package bot

import (
	"overseer/internal/events"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

func (bot *Bot) Interact(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {
	switch interaction.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		bot.autocomplete(discord, interaction.Interaction)
	case discordgo.InteractionApplicationCommand:
		bot.command(discord, interaction.Interaction)
	}
}

func (bot *Bot) autocomplete(discord *discordgo.Session, interaction *discordgo.Interaction) {

	data := interaction.ApplicationCommandData()
	if data.Name != SLASH_EVENT {
		return
	}

	err := discord.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: EventChoices(bot.catalogue.Search(focusedValue(data), events.MaxChoices)),
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("Could not send autocomplete choices")
	}
}

func focusedValue(data discordgo.ApplicationCommandInteractionData) string {
	for _, option := range data.Options {
		if option.Focused && option.Type == discordgo.ApplicationCommandOptionString {
			return option.StringValue()
		}
	}
	return ""
}

func (bot *Bot) command(discord *discordgo.Session, interaction *discordgo.Interaction) {

	data := interaction.ApplicationCommandData()
	// Only the status and the announcements are meant for everybody
	ephemeral := data.Name != SLASH_STATUS && data.Name != SLASH_EVENT
	channel := newInteractionChannel(discord, interaction, ephemeral)

	user, ok := interactionUser(interaction)
	if interaction.GuildID == "" || !ok {
		bot.sendResponses(channel, OnlyInServers())
		return
	}
	log.Info().Msgf("Received slash command from %s: /%s", user.Tag, data.Name)

	ctx, cancel := bot.commandContext()
	defer cancel()
	parseResult := bot.parser.ParseInteraction(data)
	findRole := func() (string, bool) { return bot.findRole(discord, interaction.GuildID) }
	bot.sendResponses(channel, bot.execute(ctx, parseResult, user, channel, findRole))
}

func interactionUser(interaction *discordgo.Interaction) (User, bool) {
	if interaction.Member != nil && interaction.Member.User != nil {
		return User{interaction.Member.User.ID, interaction.Member.User.String()}, true
	}
	if interaction.User != nil {
		return User{interaction.User.ID, interaction.User.String()}, true
	}
	return User{}, false
}
