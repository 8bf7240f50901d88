// Package discord is the chat transport: a discordgo session handling the
// bot's slash commands and delivering solve announcements and weekly
// reports. It translates service-level sentinel errors into user-facing
// replies; all heavy lifting stays in the services layer.
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/leetboard/leetboard/internal/services"
)

// DeliveryError wraps a failed outbound message. Callers treat delivery as
// best-effort; this exists so logs can tell transport faults apart from
// logic errors.
type DeliveryError struct {
	ChatID string
	Err    error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("discord: send to %s: %v", e.ChatID, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *DeliveryError) Unwrap() error { return e.Err }

// Bot owns the Discord session and command handling.
type Bot struct {
	session *discordgo.Session
	guildID string
	tracker *services.TrackerService
	stats   *services.StatsService
	log     zerolog.Logger
}

// New builds a Bot from a bot token. The session is not opened yet; call
// Start.
func New(token, guildID string, tracker *services.TrackerService, stats *services.StatsService, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds)
	return &Bot{
		session: dg,
		guildID: strings.TrimSpace(guildID),
		tracker: tracker,
		stats:   stats,
		log:     log,
	}, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		b.handleCommand(s, i)
	})
	if err := b.session.Open(); err != nil {
		return err
	}
	if err := b.registerCommands(); err != nil {
		b.log.Warn().Err(err).Msg("command registration failed")
	}
	b.log.Info().Str("guild_id", b.guildID).Msg("discord bot started")
	return nil
}

// Close shuts the gateway connection.
func (b *Bot) Close() error {
	if b == nil || b.session == nil {
		return nil
	}
	return b.session.Close()
}

// SendMessage posts text into a channel. Failures come back as
// *DeliveryError.
func (b *Bot) SendMessage(ctx context.Context, chatID, text string) error {
	_, err := b.session.ChannelMessageSend(chatID, text, discordgo.WithContext(ctx))
	if err != nil {
		return &DeliveryError{ChatID: chatID, Err: err}
	}
	return nil
}

// DisplayName resolves a member's display name for a channel's guild,
// falling back to the raw user ID when the lookup fails.
func (b *Bot) DisplayName(chatID, userID string) string {
	guildID := b.guildID
	if ch, err := b.session.State.Channel(chatID); err == nil && ch.GuildID != "" {
		guildID = ch.GuildID
	}
	if guildID != "" {
		if m, err := b.session.State.Member(guildID, userID); err == nil {
			return memberName(m)
		}
		if m, err := b.session.GuildMember(guildID, userID); err == nil {
			return memberName(m)
		}
	}
	return userID
}

func memberName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil && m.User.Username != "" {
		return "@" + m.User.Username
	}
	if m.User != nil {
		return m.User.ID
	}
	return "a member"
}

// NotifySolve implements services.Notifier: it announces a first-time solve
// into the event's chat.
func (b *Bot) NotifySolve(ctx context.Context, ev services.SolveEvent) error {
	name := b.DisplayName(ev.ChatID, ev.UserID)
	return b.SendMessage(ctx, ev.ChatID, FormatSolve(name, ev))
}

// replyFor maps service errors to the user-facing reply for a command.
func replyFor(err error, ok string) string {
	switch {
	case err == nil:
		return ok
	case errors.Is(err, services.ErrNotLinked):
		return "No LeetCode handle linked yet. Use /link first."
	case errors.Is(err, services.ErrHandleTaken):
		return "That LeetCode handle is already linked to someone else."
	case errors.Is(err, services.ErrChatNotFound):
		return "This channel has no leaderboard yet. Use /join to start one."
	case errors.Is(err, services.ErrNotMember):
		return "You're not on this channel's leaderboard."
	case errors.Is(err, services.ErrInvalidWeights):
		return "Weights must look like `1,2,5` (Easy,Medium,Hard)."
	default:
		return "Something went wrong, try again later."
	}
}
