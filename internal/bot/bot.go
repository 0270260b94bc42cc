package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"overseer/internal/common"
	"overseer/internal/events"
	"overseer/internal/status"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Extra time a command gets on top of the render timeout
const commandMargin = 30 * time.Second

// Anything able to answer a status query
type StatusChecker interface {
	Resolve(ctx context.Context, query status.StatusQuery, config status.ResolverConfig) status.StatusResult
}

type Settings struct {
	Token         string
	Prefix        string
	EventRoleName string
	Query         status.StatusQuery
	Resolver      status.ResolverConfig
	// Reply with the status page link instead of checking it
	LinkOnly     bool
	Restrictions []common.Restriction
}

type User struct {
	Id  string
	Tag string
}

type Bot struct {
	token          string
	prefix         string
	eventRoleName  string
	query          status.StatusQuery
	resolverConfig status.ResolverConfig
	linkOnly       bool
	database       Registry
	checker        StatusChecker
	catalogue      *events.Catalogue
	parser         Parser
	limiter        *common.RateLimiter
	ctx            context.Context
}

func NewBot(settings Settings, database Registry, checker StatusChecker, catalogue *events.Catalogue) *Bot {
	return &Bot{
		token:          settings.Token,
		prefix:         settings.Prefix,
		eventRoleName:  settings.EventRoleName,
		query:          settings.Query,
		resolverConfig: settings.Resolver,
		linkOnly:       settings.LinkOnly,
		database:       database,
		checker:        checker,
		catalogue:      catalogue,
		parser:         NewParser(settings.Prefix, catalogue),
		limiter:        common.NewRateLimiter(settings.Restrictions),
		ctx:            context.Background(),
	}
}

// Connect to discord and serve commands until the context is done
func (bot *Bot) Run(ctx context.Context) error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	// Event handlers
	bot.ctx = ctx
	discord.AddHandler(bot.ready)
	discord.AddHandler(bot.Receive)
	discord.AddHandler(bot.Interact)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	log.Info().Msg("Bot running")
	<-ctx.Done()
	log.Info().Msg("Closing discord session")
	return nil
}

func (bot *Bot) ready(discord *discordgo.Session, ready *discordgo.Ready) {
	log.Info().Msgf("Logged in as %s, serving %d guilds", ready.User.String(), len(ready.Guilds))
}

func (bot *Bot) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(bot.ctx, bot.resolverConfig.RenderTimeout+commandMargin)
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject messages from bots, myself included
	if message.Author == nil || message.Author.Bot {
		return
	}

	// The prefix may be shared with other bots, so commands
	// I do not know are silently ignored
	parseResult := bot.parser.Parse(message.Content)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX, PARSEID_NO_COMMAND, PARSEID_COMMAND_NOT_RECOGNISED:
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		log.Debug().Msgf("Ignoring private message from %s", message.Author.ID)
		return
	}

	channel := newMessageChannel(discord, message.Message)

	user := User{message.Author.ID, message.Author.String()}
	log.Info().Msgf("Received command from %s: %s", user.Tag, message.Content)

	ctx, cancel := bot.commandContext()
	defer cancel()
	findRole := func() (string, bool) { return bot.findRole(discord, message.GuildID) }
	bot.sendResponses(channel, bot.execute(ctx, parseResult, user, channel, findRole))
}

// Run a parsed command and build the responses to it
func (bot *Bot) execute(ctx context.Context, parseResult ParseResult, user User, channel Channel, findRole func() (string, bool)) []Response {

	switch parseResult.parseid {
	case PARSEID_OK:
		switch parseResult.command {
		case COMMAND_ADDIGN:
			switch ign := parseResult.arguments.(type) {
			default:
				panic(fmt.Sprintf("unexpected type of ign %T", ign))
			case string:
				return bot.addIgn(ctx, user, ign)
			}
		case COMMAND_MYIGN:
			return bot.myIgn(ctx, user, bot.usage(parseResult, "addign"))
		case COMMAND_REMOVEIGN:
			return bot.removeIgn(ctx, user)
		case COMMAND_STATUS:
			return bot.status(ctx, channel)
		case COMMAND_EVENT:
			switch event := parseResult.arguments.(type) {
			default:
				panic(fmt.Sprintf("unexpected type of event %T", event))
			case events.Event:
				return bot.announce(ctx, user, event, findRole, bot.usage(parseResult, "addign"))
			}
		case COMMAND_HELP:
			return HelpMessage(bot.prefix, bot.catalogue)
		default:
			panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
		}
	case PARSEID_NO_INPUT:
		return IgnUsage(bot.usage(parseResult, "addign"))
	case PARSEID_INPUT_TOO_LONG:
		return IgnTooLong()
	case PARSEID_EVENT_NOT_RECOGNISED:
		key, _ := parseResult.arguments.(string)
		return EventUnknown(key)
	}

	// The command is invalid input, so it contains an error message
	log.Debug().Msgf("Wrong input from %s: %s", user.Tag, parseResult.errorMessage)
	return InputNotValid(parseResult.errorMessage)
}

// How a command is invoked, as the user would type it
func (bot *Bot) usage(parseResult ParseResult, command string) string {
	if parseResult.slash {
		return "/" + command
	}
	return bot.prefix + command
}

func (bot *Bot) sendResponses(channel Channel, responses []Response) {
	for _, response := range responses {
		err := response.Send(channel)
		if err == nil {
			continue
		}
		log.Error().Err(err).Msgf("Could not send response of type %T", response)
		// Let the user know the announcement did not go out
		if _, ok := response.(ResponseAnnouncement); ok {
			for _, fallback := range EventSendFailed() {
				if err := fallback.Send(channel); err != nil {
					log.Error().Err(err).Msg("Could not report the failed announcement")
				}
			}
		}
	}
}

func (bot *Bot) addIgn(ctx context.Context, user User, ign string) []Response {

	if err := bot.database.SetIgn(ctx, user.Id, ign); err != nil {
		log.Error().Err(err).Msgf("Could not set IGN of user %s", user.Tag)
		return DatabaseError("saving your IGN")
	}
	log.Info().Msgf("IGN of user %s set to %s", user.Tag, ign)
	return IgnSet(ign)
}

func (bot *Bot) myIgn(ctx context.Context, user User, usage string) []Response {

	entry, err := bot.database.GetIgn(ctx, user.Id)
	if errors.Is(err, ErrNotRegistered) {
		return IgnMissing(usage)
	}
	if err != nil {
		log.Error().Err(err).Msgf("Could not get IGN of user %s", user.Tag)
		return DatabaseError("fetching your IGN")
	}
	return IgnShow(entry.Ign)
}

func (bot *Bot) removeIgn(ctx context.Context, user User) []Response {

	removed, err := bot.database.RemoveIgn(ctx, user.Id)
	if err != nil {
		log.Error().Err(err).Msgf("Could not remove IGN of user %s", user.Tag)
		return DatabaseError("removing your IGN")
	}
	if !removed {
		return IgnNothingToRemove()
	}
	log.Info().Msgf("IGN of user %s removed", user.Tag)
	return IgnRemoved()
}

func (bot *Bot) status(ctx context.Context, channel Channel) []Response {

	if bot.linkOnly {
		return StatusLink(bot.query)
	}

	// Every check launches a browser, so they are rate limited
	if allowed, wait := bot.limiter.Allowed(); !allowed {
		log.Info().Msgf("Status check rate limited for %s", wait)
		return StatusRateLimited(wait)
	}

	if err := channel.Acknowledge(); err != nil {
		log.Warn().Err(err).Msg("Could not acknowledge status command")
	}
	result := bot.checker.Resolve(ctx, bot.query, bot.resolverConfig)
	log.Info().Msgf("Status check finished: %s", result)
	return StatusMessage(result, bot.query)
}

func (bot *Bot) announce(ctx context.Context, user User, event events.Event, findRole func() (string, bool), usage string) []Response {

	// Only users with an IGN can announce events
	entry, err := bot.database.GetIgn(ctx, user.Id)
	if errors.Is(err, ErrNotRegistered) {
		return EventNeedsIgn(usage)
	}
	if err != nil {
		log.Error().Err(err).Msgf("Could not get IGN of user %s", user.Tag)
		return DatabaseError("checking your registered IGN")
	}

	roleId, ok := findRole()
	if !ok {
		log.Error().Msgf("Role %s not found", bot.eventRoleName)
		return EventRoleMissing(bot.eventRoleName)
	}

	log.Info().Msgf("User %s announces event %s", user.Tag, event.Key)
	return EventAnnouncement(roleId, user.Id, event, entry.Ign)
}

// Find the event role of a guild, first in the state cache
// and then asking discord
func (bot *Bot) findRole(discord *discordgo.Session, guildId string) (string, bool) {

	if discord.State != nil {
		if guild, err := discord.State.Guild(guildId); err == nil {
			if id, ok := matchRole(guild.Roles, bot.eventRoleName); ok {
				return id, true
			}
		}
	}

	roles, err := discord.GuildRoles(guildId)
	if err != nil {
		log.Error().Err(err).Msgf("Could not get roles of guild %s", guildId)
		return "", false
	}
	return matchRole(roles, bot.eventRoleName)
}

func matchRole(roles []*discordgo.Role, name string) (string, bool) {
	for _, role := range roles {
		if strings.EqualFold(role.Name, name) {
			return role.ID, true
		}
	}
	return "", false
}
