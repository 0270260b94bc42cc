package bot

import (
	"fmt"
	"strings"

	"overseer/internal/events"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const (
	COMMAND_ADDIGN    = iota
	COMMAND_MYIGN     = iota
	COMMAND_REMOVEIGN = iota
	COMMAND_STATUS    = iota
	COMMAND_EVENT     = iota
	COMMAND_HELP      = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_INPUT_TOO_LONG         = iota
	PARSEID_EVENT_NOT_RECOGNISED   = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_INPUT_TOO_LONG:         "Input of command `%s` is too long",
	PARSEID_EVENT_NOT_RECOGNISED:   "Event `%s` not recognised",
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
	slash        bool
}

type Parser struct {
	prefix    string
	catalogue *events.Catalogue
}

func NewParser(prefix string, catalogue *events.Catalogue) Parser {
	return Parser{prefix, catalogue}
}

func (parser Parser) Parse(message string) ParseResult {

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, parser.prefix) {
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(message[len(parser.prefix):])
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := strings.ToLower(words[0])
	words = words[1:]

	// Match the command
	switch commandString {
	case "addign":
		// !addign <ign>
		command := COMMAND_ADDIGN
		ign, err := NormaliseIgn(strings.Join(words, " "))
		switch err {
		case nil:
			return ParseResult{command: command, parseid: PARSEID_OK, arguments: ign}
		case ErrIgnTooLong:
			parseid := PARSEID_INPUT_TOO_LONG
			return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
		default:
			parseid := PARSEID_NO_INPUT
			return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
		}
	case "myign":
		// !myign
		return ParseResult{command: COMMAND_MYIGN, parseid: PARSEID_OK}
	case "removeign":
		// !removeign
		return ParseResult{command: COMMAND_REMOVEIGN, parseid: PARSEID_OK}
	case "status":
		// !status
		return ParseResult{command: COMMAND_STATUS, parseid: PARSEID_OK}
	case "help":
		// !help
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	}

	// !<event>
	if event, ok := parser.catalogue.Lookup(commandString); ok {
		return ParseResult{command: COMMAND_EVENT, parseid: PARSEID_OK, arguments: event}
	}

	log.Debug().Msgf("Command %s not recognised", commandString)
	parseid := PARSEID_COMMAND_NOT_RECOGNISED
	return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
}

// Translate a slash command into the same result a prefix command gives
func (parser Parser) ParseInteraction(data discordgo.ApplicationCommandInteractionData) ParseResult {

	option := func(name string) string {
		for _, opt := range data.Options {
			if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
				return opt.StringValue()
			}
		}
		return ""
	}

	var result ParseResult
	switch data.Name {
	case SLASH_ADDIGN:
		result = parser.Parse(parser.prefix + "addign " + option(OPTION_IGN))
	case SLASH_MYIGN:
		result = ParseResult{command: COMMAND_MYIGN, parseid: PARSEID_OK}
	case SLASH_REMOVEIGN:
		result = ParseResult{command: COMMAND_REMOVEIGN, parseid: PARSEID_OK}
	case SLASH_STATUS:
		result = ParseResult{command: COMMAND_STATUS, parseid: PARSEID_OK}
	case SLASH_EVENT:
		key := strings.TrimSpace(option(OPTION_EVENT_NAME))
		if event, ok := parser.catalogue.Lookup(key); ok {
			result = ParseResult{command: COMMAND_EVENT, parseid: PARSEID_OK, arguments: event}
		} else {
			parseid := PARSEID_EVENT_NOT_RECOGNISED
			result = ParseResult{command: COMMAND_EVENT, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], key), arguments: key}
		}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		result = ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], data.Name)}
	}
	result.slash = true
	return result
}
