package bot

import (
	"fmt"
	"math"
	"strings"
	"time"

	"overseer/internal/events"
	"overseer/internal/status"

	"github.com/bwmarrin/discordgo"
)

// Use Vault-Tec blue for the bot
const color int = 0x1f5aa6

func InputNotValid(errorMessage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func OnlyInServers() []Response {
	return []Response{ResponseString{"Commands only work inside a server, not in private messages."}}
}

func HelpMessage(prefix string, catalogue *events.Catalogue) []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%saddign <ign>` or `/addign`", prefix),
		Value:  "Add or update your Fallout 76 In-Game Name (IGN)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%smyign` or `/myign`", prefix),
		Value:  "Check your currently registered IGN",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%sremoveign` or `/removeign`", prefix),
		Value:  "Remove your registered IGN",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%sstatus` or `/status`", prefix),
		Value:  "Check the status of the Fallout 76 servers",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s<event>` or `/76event`", prefix),
		Value:  "Announce a public event running on your server. You need a registered IGN",
		Inline: false,
	})

	lines := []string{}
	for _, event := range catalogue.Sorted() {
		lines = append(lines, fmt.Sprintf("`%s%s` %s", prefix, event.Key, event.Name))
	}
	for i, value := range chunk(lines, 1024) {
		name := "Events"
		if i > 0 {
			name = "Events (continued)"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: false})
	}
	return []Response{ResponseEmbed{embed}}
}

// Join lines into values no longer than limit, which is what
// discord accepts in an embed field
func chunk(lines []string, limit int) []string {
	values := []string{}
	current := ""
	for _, line := range lines {
		if current != "" && len(current)+1+len(line) > limit {
			values = append(values, current)
			current = ""
		}
		if current != "" {
			current += "\n"
		}
		current += line
	}
	if current != "" {
		values = append(values, current)
	}
	return values
}

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"*", "\\*",
	"_", "\\_",
	"~", "\\~",
	"`", "\\`",
	"|", "\\|",
	">", "\\>",
)

// User text shown inside bold markers must not break the formatting
func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

func IgnUsage(usage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Please provide your In-Game Name (IGN) after the command.\nExample: `%s Your IGN Here`", usage)}}
}

func IgnTooLong() []Response {
	return []Response{ResponseString{fmt.Sprintf("❌ That IGN is too long, it can have at most %d characters.", MaxIgnLength)}}
}

func IgnSet(ign string) []Response {
	return []Response{ResponseString{fmt.Sprintf("✅ Your IGN has been successfully set/updated to: **%s**", escapeMarkdown(ign))}}
}

func IgnShow(ign string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Your registered IGN is: **%s**", escapeMarkdown(ign))}}
}

func IgnMissing(usage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("You haven't registered an IGN yet. Use `%s [your IGN]` to set one.", usage)}}
}

func IgnRemoved() []Response {
	return []Response{ResponseString{"✅ Your registered IGN has been removed."}}
}

func IgnNothingToRemove() []Response {
	return []Response{ResponseString{"You don't currently have an IGN registered to remove."}}
}

func DatabaseError(action string) []Response {
	return []Response{ResponseString{fmt.Sprintf("❌ An error occurred while %s. Please try again later.", action)}}
}

func StatusMessage(result status.StatusResult, query status.StatusQuery) []Response {

	service := query.TargetServiceName
	source := fmt.Sprintf("(Source: <%s>)", query.SourceURL)

	var content string
	switch result.Kind {
	case status.ResultFound:
		content = fmt.Sprintf("Bethesda Status Portal reports **%s** is currently: **%s**\n%s", service, result.StatusText, source)
	case status.ResultNotListed:
		content = fmt.Sprintf("**%s** is not listed on the status page right now.\n%s", result.TargetServiceName, source)
	case status.ResultIndeterminate:
		content = fmt.Sprintf("I found **%s** on the status page but could not determine its status. You can check it yourself: <%s>", service, query.SourceURL)
	case status.ResultFailure:
		switch result.Failure {
		case status.FailureTimeout:
			content = fmt.Sprintf("⌛ The status page took too long to load. Please try again in a few minutes, or check it yourself: <%s>", query.SourceURL)
		case status.FailureRenderEngineUnavailable:
			content = fmt.Sprintf("❌ The status checker is not available right now. Please let a server admin know. Meanwhile you can check the status here: <%s>", query.SourceURL)
		case status.FailureNetworkError:
			content = fmt.Sprintf("❌ Sorry, I couldn't reach the status page for %s. Please try again later.\n%s", service, source)
		default:
			content = fmt.Sprintf("❌ Sorry, I couldn't retrieve the status for %s. There was an error interacting with the status page.", service)
		}
	}
	return []Response{ResponseString{content}}
}

func StatusLink(query status.StatusQuery) []Response {
	return []Response{ResponseString{fmt.Sprintf("You can check the status of the %s servers here: <%s>", query.TargetServiceName, query.SourceURL)}}
}

func StatusRateLimited(wait time.Duration) []Response {
	seconds := int(math.Ceil(wait.Seconds()))
	return []Response{ResponseString{fmt.Sprintf("⏳ The status was checked just now. Please try again in %d seconds.", seconds)}}
}

func EventNeedsIgn(usage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("You need to set your IGN first using `%s [your IGN]` before announcing events.", usage)}}
}

func EventUnknown(key string) []Response {
	return []Response{ResponseString{fmt.Sprintf("❌ `%s` is not an event I know. Pick one from the list.", escapeMarkdown(key))}}
}

func EventRoleMissing(roleName string) []Response {
	return []Response{ResponseString{fmt.Sprintf("❌ Error: The role \"@%s\" was not found. Please check the configuration or create the role.", roleName)}}
}

func EventAnnouncement(roleId string, userId string, event events.Event, ign string) []Response {
	content := fmt.Sprintf("Attention, <@&%s>! <@%s> has **%s** active on their server!\nTheir IGN is **%s**. Feel free to join them!",
		roleId, userId, event.Name, escapeMarkdown(ign))
	return []Response{ResponseAnnouncement{content: content, roleId: roleId, userId: userId}}
}

func EventSendFailed() []Response {
	return []Response{ResponseString{"❌ Sorry, I couldn't send the notification message. Check my permissions."}}
}
