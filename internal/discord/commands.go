package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// commandTimeout bounds the DB work behind a single slash command.
const commandTimeout = 10 * time.Second

func (b *Bot) registerCommands() error {
	appID := ""
	if b.session.State != nil && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}
	if appID == "" {
		return fmt.Errorf("missing application ID")
	}

	cmds := []*discordgo.ApplicationCommand{
		{
			Name:        "link",
			Description: "Link your LeetCode username and start tracking first-time solves",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "username",
					Description: "Your LeetCode username",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "unlink",
			Description: "Stop tracking and remove your solves and memberships",
		},
		{
			Name:        "join",
			Description: "Join this channel's leaderboard",
		},
		{
			Name:        "leave",
			Description: "Leave this channel's leaderboard",
		},
		{
			Name:        "notify",
			Description: "Turn solve announcements for this channel on or off",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "state",
					Description: "on or off",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "on", Value: "on"},
						{Name: "off", Value: "off"},
					},
				},
			},
		},
		{
			Name:        "weights",
			Description: "Set this channel's scoring weights",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "weights",
					Description: "Easy,Medium,Hard point values, e.g. 1,2,5",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "stats",
			Description: "Your lifetime and current-week solve counts",
		},
		{
			Name:        "leaderboard",
			Description: "This week's channel leaderboard",
		},
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, cmds)
	return err
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.guildID != "" && i.GuildID != "" && i.GuildID != b.guildID {
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	var reply string
	switch data.Name {
	case "link":
		handle := strings.TrimSpace(stringOption(data, "username"))
		if handle == "" {
			reply = "Usage: /link <leetcode_username>"
			break
		}
		err := b.tracker.Link(ctx, user.ID, user.Username, handle)
		reply = replyFor(err, "Linked to LeetCode: "+handle+". First-time solves from now on will count.")
	case "unlink":
		err := b.tracker.Unlink(ctx, user.ID)
		reply = replyFor(err, "Unlinked. Your solves and memberships are gone.")
	case "join":
		err := b.tracker.JoinChat(ctx, i.ChannelID, channelTitle(s, i.ChannelID), user.ID)
		reply = replyFor(err, "You're in! First-time solves count for this channel's weekly board.")
	case "leave":
		err := b.tracker.LeaveChat(ctx, i.ChannelID, user.ID)
		reply = replyFor(err, "Left this channel's leaderboard.")
	case "notify":
		on := strings.EqualFold(stringOption(data, "state"), "on")
		err := b.tracker.SetNotify(ctx, i.ChannelID, channelTitle(s, i.ChannelID), on)
		state := "off"
		if on {
			state = "on"
		}
		reply = replyFor(err, "Solve announcements are now "+state+".")
	case "weights":
		w := strings.TrimSpace(stringOption(data, "weights"))
		err := b.tracker.SetWeights(ctx, i.ChannelID, channelTitle(s, i.ChannelID), w)
		reply = replyFor(err, "Scoring weights set to "+w+".")
	case "stats":
		st, err := b.stats.Stats(ctx, user.ID)
		if err != nil {
			reply = replyFor(err, "")
			break
		}
		reply = FormatStats(st)
	case "leaderboard":
		entries, weights, err := b.stats.Leaderboard(ctx, i.ChannelID)
		if err != nil {
			reply = replyFor(err, "")
			break
		}
		if len(entries) == 0 {
			reply = "No solves yet this week."
			break
		}
		names := make([]string, len(entries))
		for idx, e := range entries {
			names[idx] = b.DisplayName(i.ChannelID, e.UserID)
		}
		reply = FormatLeaderboard(entries, names, weights)
	default:
		return
	}

	if err := respondEphemeral(s, i, reply); err != nil {
		b.log.Warn().Err(err).Str("command", data.Name).Msg("interaction respond failed")
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionString && opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func channelTitle(s *discordgo.Session, channelID string) string {
	if ch, err := s.State.Channel(channelID); err == nil && ch.Name != "" {
		return ch.Name
	}
	return ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
