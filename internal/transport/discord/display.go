package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-quiz-bot/internal/app"
)

// answerPrefix namespaces the button custom IDs so the interaction handler
// can route them: "quizans:<quiz>:<optionIndex>".
const answerPrefix = "quizans"

const (
	colorQuestion = 0x3498db
	colorSettings = 0x9b59b6
)

// channelDisplay implements app.DisplayPort against the Discord channel a
// quiz was started in.
type channelDisplay struct {
	session   *discordgo.Session
	channelID string
}

// questionMessage is the display handle: enough to edit the embed footer
// and rebuild the buttons on disable.
type questionMessage struct {
	messageID string
	embed     *discordgo.MessageEmbed
	quiz      string
	options   int
}

func (b *Bot) displayFor(channelID string) app.DisplayPort {
	return &channelDisplay{session: b.session, channelID: channelID}
}

func (d *channelDisplay) ShowQuestion(_ context.Context, view app.RoundView) (app.DisplayHandle, error) {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s - Question %d", view.Quiz, view.Number),
		Description: view.Text,
		Color:       colorQuestion,
		Footer:      &discordgo.MessageEmbedFooter{Text: remainingText(view.Remaining)},
	}
	for i, opt := range view.Options {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Option %d", i+1),
			Value: opt,
		})
	}

	msg, err := d.session.ChannelMessageSendComplex(d.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: answerButtons(view.Quiz, len(view.Options), false),
	})
	if err != nil {
		return nil, fmt.Errorf("send question: %w", err)
	}
	return &questionMessage{
		messageID: msg.ID,
		embed:     embed,
		quiz:      view.Quiz,
		options:   len(view.Options),
	}, nil
}

func (d *channelDisplay) UpdateCountdown(_ context.Context, handle app.DisplayHandle, remaining int) error {
	h, ok := handle.(*questionMessage)
	if !ok {
		return fmt.Errorf("unexpected display handle %T", handle)
	}
	h.embed.Footer = &discordgo.MessageEmbedFooter{Text: remainingText(remaining)}

	edit := discordgo.NewMessageEdit(d.channelID, h.messageID)
	edit.Embeds = &[]*discordgo.MessageEmbed{h.embed}
	_, err := d.session.ChannelMessageEditComplex(edit)
	return err
}

func (d *channelDisplay) DisableInput(_ context.Context, handle app.DisplayHandle) error {
	h, ok := handle.(*questionMessage)
	if !ok {
		return fmt.Errorf("unexpected display handle %T", handle)
	}
	disabled := answerButtons(h.quiz, h.options, true)

	edit := discordgo.NewMessageEdit(d.channelID, h.messageID)
	edit.Embeds = &[]*discordgo.MessageEmbed{h.embed}
	edit.Components = &disabled
	_, err := d.session.ChannelMessageEditComplex(edit)
	return err
}

func (d *channelDisplay) Post(_ context.Context, text string) error {
	_, err := d.session.ChannelMessageSend(d.channelID, text)
	return err
}

// answerButtons builds one numbered button per option, five per row.
func answerButtons(quiz string, options int, disabled bool) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row discordgo.ActionsRow
	for i := 0; i < options; i++ {
		row.Components = append(row.Components, discordgo.Button{
			Label:    strconv.Itoa(i + 1),
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("%s:%s:%d", answerPrefix, quiz, i),
			Disabled: disabled,
		})
		if len(row.Components) == 5 {
			rows = append(rows, row)
			row = discordgo.ActionsRow{}
		}
	}
	if len(row.Components) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func remainingText(remaining int) string {
	return fmt.Sprintf("Time remaining: %d seconds", remaining)
}

// parseAnswerID splits a button custom ID back into quiz name and option
// index. Quiz names may contain colons, so the index is taken from the end.
func parseAnswerID(customID string) (quiz string, option int, ok bool) {
	rest, found := strings.CutPrefix(customID, answerPrefix+":")
	if !found {
		return "", 0, false
	}
	sep := strings.LastIndex(rest, ":")
	if sep < 0 {
		return "", 0, false
	}
	option, err := strconv.Atoi(rest[sep+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:sep], option, true
}
