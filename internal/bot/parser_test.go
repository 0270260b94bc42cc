package bot

import (
	"strings"
	"testing"

	"overseer/internal/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	parser := NewParser("!", events.Default())
	rumble, _ := events.Default().Lookup("rumble")

	tests := []struct {
		name      string
		message   string
		parseid   int
		command   int
		arguments interface{}
	}{
		{"not for the bot", "hello there", PARSEID_NO_BOT_PREFIX, 0, nil},
		{"only the prefix", "!  ", PARSEID_NO_COMMAND, 0, nil},
		{"unknown command", "!dance", PARSEID_COMMAND_NOT_RECOGNISED, 0, nil},
		{"addign", "!addign Vault Dweller", PARSEID_OK, COMMAND_ADDIGN, "Vault Dweller"},
		{"addign collapses spaces", "!addign   Vault    Dweller  ", PARSEID_OK, COMMAND_ADDIGN, "Vault Dweller"},
		{"addign without name", "!addign", PARSEID_NO_INPUT, COMMAND_ADDIGN, nil},
		{"addign too long", "!addign " + strings.Repeat("x", MaxIgnLength+1), PARSEID_INPUT_TOO_LONG, COMMAND_ADDIGN, nil},
		{"command is case insensitive", "!MyIGN", PARSEID_OK, COMMAND_MYIGN, nil},
		{"removeign", "!removeign", PARSEID_OK, COMMAND_REMOVEIGN, nil},
		{"status ignores arguments", "!status now", PARSEID_OK, COMMAND_STATUS, nil},
		{"help", "!help", PARSEID_OK, COMMAND_HELP, nil},
		{"event", "!rumble", PARSEID_OK, COMMAND_EVENT, rumble},
		{"event in capitals", "!RUMBLE", PARSEID_OK, COMMAND_EVENT, rumble},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(tt.message)
			assert.Equal(t, tt.parseid, result.parseid)
			if tt.parseid == PARSEID_OK || tt.parseid == PARSEID_NO_INPUT || tt.parseid == PARSEID_INPUT_TOO_LONG {
				assert.Equal(t, tt.command, result.command)
			}
			assert.Equal(t, tt.arguments, result.arguments)
		})
	}
}

func TestParse_ErrorMessages(t *testing.T) {
	parser := NewParser("!", events.Default())

	assert.Equal(t, "Command `addign` requires an argument", parser.Parse("!addign").errorMessage)
	assert.Equal(t, "Command `dance` not recognised", parser.Parse("!dance").errorMessage)
}

func TestParse_LongPrefix(t *testing.T) {
	parser := NewParser("overseer", events.Default())

	assert.Equal(t, PARSEID_OK, parser.Parse("overseer status").parseid)
	assert.Equal(t, PARSEID_NO_BOT_PREFIX, parser.Parse("!status").parseid)
}

func TestParseInteraction(t *testing.T) {
	parser := NewParser("!", events.Default())
	rumble, _ := events.Default().Lookup("rumble")

	option := func(name string, value string) []*discordgo.ApplicationCommandInteractionDataOption {
		return []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value},
		}
	}

	result := parser.ParseInteraction(discordgo.ApplicationCommandInteractionData{Name: SLASH_ADDIGN, Options: option(OPTION_IGN, "  Vault   Dweller ")})
	assert.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "Vault Dweller", result.arguments)
	assert.True(t, result.slash)

	result = parser.ParseInteraction(discordgo.ApplicationCommandInteractionData{Name: SLASH_ADDIGN, Options: option(OPTION_IGN, " ")})
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)

	result = parser.ParseInteraction(discordgo.ApplicationCommandInteractionData{Name: SLASH_EVENT, Options: option(OPTION_EVENT_NAME, "Rumble")})
	assert.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, rumble, result.arguments)

	result = parser.ParseInteraction(discordgo.ApplicationCommandInteractionData{Name: SLASH_EVENT, Options: option(OPTION_EVENT_NAME, "dance")})
	assert.Equal(t, PARSEID_EVENT_NOT_RECOGNISED, result.parseid)
	assert.Equal(t, "dance", result.arguments)

	result = parser.ParseInteraction(discordgo.ApplicationCommandInteractionData{Name: SLASH_STATUS})
	assert.Equal(t, COMMAND_STATUS, result.command)

	result = parser.ParseInteraction(discordgo.ApplicationCommandInteractionData{Name: "dance"})
	assert.Equal(t, PARSEID_COMMAND_NOT_RECOGNISED, result.parseid)
}
