package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"discord-quiz-bot/internal/app"
	"discord-quiz-bot/internal/domain"
	"discord-quiz-bot/internal/infra/xlsx"
)

// NewGateway builds a Discord gateway session with the intents the bot
// needs: guild messages with content for commands, members for identity
// resolution.
func NewGateway(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers
	return session, nil
}

// Options configures the command surface.
type Options struct {
	// Prefix is the command prefix, "!" by default.
	Prefix string
	// AllowedRole restricts commands to members carrying this role ID.
	// Empty means no gating. Unauthorized command messages are deleted
	// silently.
	AllowedRole string
	Logger      *slog.Logger
}

// Bot is the Discord adapter: it parses admin commands, renders questions
// with answer buttons and routes button presses into the engine.
type Bot struct {
	session     *discordgo.Session
	svc         *app.QuizService
	results     *xlsx.Exporter
	prefix      string
	allowedRole string
	log         *slog.Logger
}

func NewBot(session *discordgo.Session, svc *app.QuizService, results *xlsx.Exporter, opts Options) *Bot {
	b := &Bot{
		session:     session,
		svc:         svc,
		results:     results,
		prefix:      opts.Prefix,
		allowedRole: opts.AllowedRole,
		log:         opts.Logger,
	}
	if b.prefix == "" {
		b.prefix = "!"
	}
	if b.log == nil {
		b.log = slog.Default()
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)
	session.AddHandler(b.onInteraction)
	return b
}

// Run opens the gateway connection and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	<-ctx.Done()
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("bot logged in", "user", r.User.Username)
}

// onInteraction handles answer button presses. One handler serves every
// open window; the button's custom ID carries the quiz name and option
// index.
func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	quiz, option, ok := parseAnswerID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	user := i.User
	if i.Member != nil {
		user = i.Member.User
	}
	if user == nil {
		return
	}

	result, err := b.svc.SubmitAnswer(quiz, user.ID, option)
	switch {
	case errors.Is(err, domain.ErrDuplicateAnswer):
		b.respondEphemeral(s, i, "You have already answered this question!")
	case errors.Is(err, domain.ErrWindowClosed), errors.Is(err, domain.ErrSessionNotFound):
		// Button race against the closing window; just ack.
		b.ack(s, i)
	case err != nil:
		b.log.Warn("submit answer failed", "quiz", quiz, "user", user.ID, "error", err)
		b.ack(s, i)
	case !result.ShowFeedback:
		b.ack(s, i)
	case result.Answer.Correct:
		b.respondEphemeral(s, i, fmt.Sprintf("You answered correctly in %.2f seconds!", result.Answer.Elapsed.Seconds()))
	default:
		b.respondEphemeral(s, i, "You answered incorrectly!")
	}
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, text string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.Warn("interaction respond failed", "error", err)
	}
}

// ack acknowledges the interaction without any visible response.
func (b *Bot) ack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		b.log.Warn("interaction ack failed", "error", err)
	}
}

func (b *Bot) reply(channelID, text string) {
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		b.log.Warn("send reply failed", "channel", channelID, "error", err)
	}
}

// Resolver resolves participant IDs through the Discord API.
type Resolver struct {
	session *discordgo.Session
}

func NewResolver(session *discordgo.Session) *Resolver {
	return &Resolver{session: session}
}

func (r *Resolver) Resolve(userID string) app.Identity {
	user, err := r.session.User(userID)
	if err != nil || user == nil {
		return app.UnknownIdentity(userID)
	}
	return app.Identity{Name: user.Username, Mention: user.Mention()}
}
