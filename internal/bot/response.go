package bot

import (
	"github.com/bwmarrin/discordgo"
)

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

// Message for the whole channel, pinging only the listed role and user
type ResponseAnnouncement struct {
	content string
	roleId  string
	userId  string
}

type Response interface {
	Send(channel Channel) error
}

func (response ResponseString) Send(channel Channel) error {
	return channel.Reply(response.string)
}

func (response ResponseEmbed) Send(channel Channel) error {
	return channel.ReplyEmbed(&response.MessageEmbed)
}

func (response ResponseAnnouncement) Send(channel Channel) error {
	mentions := &discordgo.MessageAllowedMentions{
		Roles: []string{response.roleId},
		Users: []string{response.userId},
	}
	return channel.Announce(response.content, mentions)
}
