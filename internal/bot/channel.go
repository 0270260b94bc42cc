package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Where the responses to one command go. A prefix command is answered
// with replies to the message, a slash command through its interaction
type Channel interface {
	// Let the user know a slow command is being worked on
	Acknowledge() error
	Reply(content string) error
	ReplyEmbed(embed *discordgo.MessageEmbed) error
	Announce(content string, mentions *discordgo.MessageAllowedMentions) error
}

type messageChannel struct {
	discord *discordgo.Session
	message *discordgo.Message
}

func newMessageChannel(discord *discordgo.Session, message *discordgo.Message) *messageChannel {
	return &messageChannel{discord, message}
}

func (channel *messageChannel) Acknowledge() error {
	return channel.discord.ChannelTyping(channel.message.ChannelID)
}

func (channel *messageChannel) Reply(content string) error {
	_, err := channel.discord.ChannelMessageSendComplex(channel.message.ChannelID, &discordgo.MessageSend{
		Content:         content,
		Reference:       channel.message.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{RepliedUser: true},
	})
	return err
}

func (channel *messageChannel) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	_, err := channel.discord.ChannelMessageSendComplex(channel.message.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: channel.message.Reference(),
	})
	return err
}

func (channel *messageChannel) Announce(content string, mentions *discordgo.MessageAllowedMentions) error {
	_, err := channel.discord.ChannelMessageSendComplex(channel.message.ChannelID, &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: mentions,
	})
	return err
}

type interactionChannel struct {
	discord     *discordgo.Session
	interaction *discordgo.Interaction
	ephemeral   bool
	deferred    bool
	responded   bool
}

func newInteractionChannel(discord *discordgo.Session, interaction *discordgo.Interaction, ephemeral bool) *interactionChannel {
	return &interactionChannel{discord: discord, interaction: interaction, ephemeral: ephemeral}
}

func (channel *interactionChannel) flags(public bool) discordgo.MessageFlags {
	if channel.ephemeral && !public {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// Slash commands must be answered within three seconds, so slow
// commands defer the response and edit it later
func (channel *interactionChannel) Acknowledge() error {
	if channel.deferred || channel.responded {
		return nil
	}
	err := channel.discord.InteractionRespond(channel.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: channel.flags(false)},
	})
	if err != nil {
		return fmt.Errorf("could not defer interaction response: %w", err)
	}
	channel.deferred = true
	return nil
}

func (channel *interactionChannel) send(content string, embeds []*discordgo.MessageEmbed, mentions *discordgo.MessageAllowedMentions, public bool) error {

	if mentions == nil {
		mentions = &discordgo.MessageAllowedMentions{}
	}

	switch {
	case !channel.deferred && !channel.responded:
		channel.responded = true
		return channel.discord.InteractionRespond(channel.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:         content,
				Embeds:          embeds,
				AllowedMentions: mentions,
				Flags:           channel.flags(public),
			},
		})
	case channel.deferred && !channel.responded:
		channel.responded = true
		_, err := channel.discord.InteractionResponseEdit(channel.interaction, &discordgo.WebhookEdit{
			Content:         &content,
			Embeds:          &embeds,
			AllowedMentions: mentions,
		})
		return err
	default:
		_, err := channel.discord.FollowupMessageCreate(channel.interaction, true, &discordgo.WebhookParams{
			Content:         content,
			Embeds:          embeds,
			AllowedMentions: mentions,
			Flags:           channel.flags(public),
		})
		return err
	}
}

func (channel *interactionChannel) Reply(content string) error {
	return channel.send(content, nil, nil, false)
}

func (channel *interactionChannel) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return channel.send("", []*discordgo.MessageEmbed{embed}, nil, false)
}

func (channel *interactionChannel) Announce(content string, mentions *discordgo.MessageAllowedMentions) error {
	return channel.send(content, nil, mentions, true)
}
