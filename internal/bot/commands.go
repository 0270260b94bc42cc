package bot

import (
	"fmt"

	"overseer/internal/events"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const (
	SLASH_ADDIGN    = "addign"
	SLASH_MYIGN     = "myign"
	SLASH_REMOVEIGN = "removeign"
	SLASH_STATUS    = "status"
	SLASH_EVENT     = "76event"

	OPTION_IGN        = "ign"
	OPTION_EVENT_NAME = "name"
)

// Slash commands of the bot. Descriptions are in English and Hungarian
func SlashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        SLASH_ADDIGN,
			Description: "Add or update your Fallout 76 In-Game Name (IGN). / Add meg vagy frissítsd a Fallout 76 neved.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OPTION_IGN,
					Description: "Your In-Game Name. / A játékbeli neved.",
					Required:    true,
					MaxLength:   MaxIgnLength,
				},
			},
		},
		{
			Name:        SLASH_MYIGN,
			Description: "Check your currently registered IGN. / Ellenőrizd a regisztrált IGN-ed.",
		},
		{
			Name:        SLASH_REMOVEIGN,
			Description: "Remove your registered IGN. / Távolítsd el a regisztrált IGN-ed.",
		},
		{
			Name:        SLASH_STATUS,
			Description: "Check the game servers' status. / A játék szervereinek állapota.",
		},
		{
			Name:        SLASH_EVENT,
			Description: "Announce a Fallout 76 event happening on your server. / Jelents be egy futó Fallout 76 eseményt.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         OPTION_EVENT_NAME,
					Description:  "The name of the event. / Az esemény neve.",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}

// Autocomplete choices: the user sees the event name, the bot gets the key
func EventChoices(found []events.Event) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(found))
	for _, event := range found {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: event.Name, Value: event.Key})
	}
	return choices
}

// Register the slash commands, replacing the ones registered before.
// With a guild id the commands show up at once in that guild only,
// global commands can take up to an hour to propagate
func DeployCommands(token string, applicationId string, guildId string) ([]*discordgo.ApplicationCommand, error) {

	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("could not create discord session: %w", err)
	}

	commands := SlashCommands()
	if guildId != "" {
		log.Info().Msgf("Registering %d commands for guild %s", len(commands), guildId)
	} else {
		log.Info().Msgf("Registering %d commands globally", len(commands))
	}

	registered, err := discord.ApplicationCommandBulkOverwrite(applicationId, guildId, commands)
	if err != nil {
		return nil, fmt.Errorf("could not register application commands: %w", err)
	}
	log.Info().Msgf("Successfully registered %d commands", len(registered))
	return registered, nil
}
