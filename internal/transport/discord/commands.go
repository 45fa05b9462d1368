package discord

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"

	"discord-quiz-bot/internal/domain"
)

// onMessage parses prefix commands. Unauthorized command messages are
// deleted without a reply.
func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}

	if !b.authorized(m) {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			b.log.Debug("delete unauthorized command failed", "error", err)
		}
		return
	}

	content := strings.TrimPrefix(m.Content, b.prefix)
	cmd, rest, _ := popArgs(content, 1)
	if len(cmd) == 0 {
		return
	}

	switch strings.ToLower(cmd[0]) {
	case "createquiz":
		b.cmdCreateQuiz(m, rest)
	case "addq", "a":
		b.cmdAddQuestion(m, rest)
	case "bulkadd":
		b.cmdBulkAdd(m, rest)
	case "editq":
		b.cmdEditQuestion(m, rest)
	case "deletequiz":
		b.cmdDeleteQuiz(m, rest)
	case "listquizzes":
		b.cmdListQuizzes(m)
	case "showquiz":
		b.cmdShowQuiz(m, rest)
	case "quizsettings":
		b.cmdQuizSettings(m)
	case "mixquestions":
		b.cmdMixQuestions(m, rest)
	case "toggleanswer":
		b.cmdToggle(m, rest, "Auto-show correct answer", b.svc.SetAutoShowAnswer)
	case "togglefastest":
		b.cmdToggle(m, rest, "Auto-show fastest answer", b.svc.SetAutoShowFastest)
	case "togglecorrect":
		b.cmdToggle(m, rest, "'Correct answer' feedback", b.svc.SetFeedbackCorrect)
	case "togglewrong":
		b.cmdToggle(m, rest, "'Incorrect answer' feedback", b.svc.SetFeedbackWrong)
	case "setleaderboard":
		b.cmdSetLeaderboard(m, rest)
	case "startquiz":
		b.cmdStartQuiz(m, rest)
	case "stopquiz":
		b.cmdStopQuiz(m, rest)
	case "leaderboard":
		b.cmdLeaderboard(m, rest)
	case "showanswer":
		b.cmdShowAnswer(m, rest)
	case "fastest":
		b.cmdFastest(m, rest)
	case "sendresults":
		b.cmdSendResults(m, rest)
	case "quizidlist":
		b.cmdQuizIDList(m, rest)
	case "quizhelp":
		b.cmdHelp(m)
	case "ping":
		b.reply(m.ChannelID, "Pong!")
	}
}

func (b *Bot) authorized(m *discordgo.MessageCreate) bool {
	if m.GuildID == "" || b.allowedRole == "" {
		return true
	}
	if m.Member == nil {
		return false
	}
	for _, role := range m.Member.Roles {
		if role == b.allowedRole {
			return true
		}
	}
	return false
}

func (b *Bot) cmdCreateQuiz(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	if name == "" {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"createquiz <quiz_name>")
		return
	}
	if err := b.svc.CreateQuiz(name); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Quiz **%s** created. You can now add questions.", name))
}

func (b *Bot) cmdAddQuestion(m *discordgo.MessageCreate, rest string) {
	args, content, ok := popArgs(rest, 3)
	if !ok || content == "" {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"addq <quiz_name> <duration> <correct_index> Question | Option1 | Option2 | ...")
		return
	}
	name := args[0]
	duration, err1 := strconv.Atoi(args[1])
	correctIndex, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		b.reply(m.ChannelID, "Duration and correct index must be numbers.")
		return
	}

	text, options, ok := splitQuestion(content)
	if !ok {
		b.reply(m.ChannelID, "You must specify at least a question and one option.")
		return
	}
	q, err := domain.NewQuestion(text, options, correctIndex, duration)
	if err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	if err := b.svc.AddQuestion(name, q); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	quiz, _ := b.svc.QuizContent(name)
	b.reply(m.ChannelID, fmt.Sprintf("Question added to **%s**. Total questions: %d", name, len(quiz.Questions)))
}

func (b *Bot) cmdBulkAdd(m *discordgo.MessageCreate, rest string) {
	lines := strings.Split(rest, "\n")
	name := strings.TrimSpace(lines[0])
	if name == "" {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"bulkadd <quiz_name> followed by one question per line.")
		return
	}
	added, err := b.svc.BulkAdd(name, lines[1:])
	if err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("%d questions added to **%s**.", added, name))
}

func (b *Bot) cmdEditQuestion(m *discordgo.MessageCreate, rest string) {
	args, content, ok := popArgs(rest, 4)
	if !ok || content == "" {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"editq <quiz_name> <question_index> <duration> <correct_index> Question | Option1 | ...")
		return
	}
	name := args[0]
	index, err1 := strconv.Atoi(args[1])
	duration, err2 := strconv.Atoi(args[2])
	correctIndex, err3 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil || err3 != nil {
		b.reply(m.ChannelID, "Question index, duration and correct index must be numbers.")
		return
	}

	text, options, ok := splitQuestion(content)
	if !ok {
		b.reply(m.ChannelID, "You must provide at least a question text and one option.")
		return
	}
	q, err := domain.NewQuestion(text, options, correctIndex, duration)
	if err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	// Commands use 1-based question numbers.
	if err := b.svc.EditQuestion(name, index-1, q); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Question %d in **%s** updated.", index, name))
}

func (b *Bot) cmdDeleteQuiz(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	if err := b.svc.DeleteQuiz(name); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	if err := b.results.Remove(name); err != nil {
		b.reply(m.ChannelID, fmt.Sprintf("Quiz deleted but the results file could not be removed: %v", err))
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Quiz **%s** deleted.", name))
}

func (b *Bot) cmdListQuizzes(m *discordgo.MessageCreate) {
	infos := b.svc.ListQuizzes()
	if len(infos) == 0 {
		b.reply(m.ChannelID, "No quizzes have been created yet.")
		return
	}
	var sb strings.Builder
	sb.WriteString("**Existing Quizzes:**\n")
	for _, info := range infos {
		fmt.Fprintf(&sb, "- %s (Total questions: %d)\n", info.Name, info.Questions)
	}
	b.reply(m.ChannelID, sb.String())
}

func (b *Bot) cmdShowQuiz(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	quiz, err := b.svc.QuizContent(name)
	if err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** Quiz Content:\n", name)
	for i, q := range quiz.Questions {
		fmt.Fprintf(&sb, "%d. %s\nOptions: %s\nCorrect answer: **%s**\n\n",
			i+1, q.Text, strings.Join(q.Options, " | "), q.CorrectText())
	}
	b.replyChunked(m.ChannelID, sb.String())
}

func (b *Bot) cmdQuizSettings(m *discordgo.MessageCreate) {
	infos := b.svc.ListQuizzes()
	if len(infos) == 0 {
		b.reply(m.ChannelID, "No quizzes have been created yet.")
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Quiz Settings",
		Description: "Current settings for all quizzes:",
		Color:       colorSettings,
	}
	for _, info := range infos {
		settings, err := b.svc.Settings(info.Name)
		if err != nil {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: info.Name,
			Value: fmt.Sprintf(
				"**Total Questions:** %d\n**Shuffle:** %s\n**Auto-show Correct Answer:** %s\n**Auto-show Fastest Answer:** %s\n**Feedback - Correct Message:** %s\n**Feedback - Incorrect Message:** %s\n**Leaderboard:** Top %d, %s\n**Active Quiz:** %s",
				info.Questions,
				enabled(settings.Shuffle),
				enabled(settings.AutoShowAnswer),
				enabled(settings.AutoShowFastest),
				enabled(settings.FeedbackCorrect),
				enabled(settings.FeedbackWrong),
				settings.LeaderboardCount,
				mentionLabel(settings.LeaderboardMention),
				yesNo(b.svc.IsRunning(info.Name)),
			),
		})
	}
	if _, err := b.session.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		b.log.Warn("send settings embed failed", "error", err)
	}
}

func (b *Bot) cmdMixQuestions(m *discordgo.MessageCreate, rest string) {
	args, _, ok := popArgs(rest, 2)
	if !ok {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"mixquestions <quiz_name> <true/false>")
		return
	}
	name, on := args[0], truthy(args[1], "shuffle")
	if err := b.svc.SetShuffle(name, on); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Shuffle mode for **%s** set to %s.", name, activeLabel(on)))
}

func (b *Bot) cmdToggle(m *discordgo.MessageCreate, rest, label string, set func(string, bool) error) {
	args, _, ok := popArgs(rest, 2)
	if !ok {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"<command> <quiz_name> <on/off>")
		return
	}
	name, on := args[0], truthy(args[1])
	if err := set(name, on); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("%s for **%s** is now %s.", label, name, strings.ToLower(enabled(on))))
}

func (b *Bot) cmdSetLeaderboard(m *discordgo.MessageCreate, rest string) {
	args, _, ok := popArgs(rest, 3)
	if !ok {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"setleaderboard <quiz_name> <count> <mention (true/false)>")
		return
	}
	name := args[0]
	count, err := strconv.Atoi(args[1])
	if err != nil {
		b.reply(m.ChannelID, "Count must be a number.")
		return
	}
	mention := truthy(args[2], "mention")
	if err := b.svc.SetLeaderboard(name, count, mention); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Leaderboard settings for **%s** updated: Top %d and will be shown as %s.", name, count, mentionLabel(mention)))
}

func (b *Bot) cmdStartQuiz(m *discordgo.MessageCreate, rest string) {
	args, _, ok := popArgs(rest, 1)
	if !ok {
		b.reply(m.ChannelID, "Usage: "+b.prefix+"startquiz <quiz_name> [shuffle/default]")
		return
	}
	name := args[0]

	var override *bool
	if moreArgs, _, ok := popArgs(rest, 2); ok {
		if mode := strings.ToLower(moreArgs[1]); mode != "default" {
			on := truthy(mode, "shuffle")
			override = &on
		}
	}

	display := b.displayFor(m.ChannelID)
	if err := b.svc.StartQuiz(context.Background(), name, override, display); err != nil {
		b.replyError(m.ChannelID, name, err)
	}
}

func (b *Bot) cmdStopQuiz(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	if err := b.svc.StopQuiz(name); err != nil {
		b.replyError(m.ChannelID, name, err)
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Quiz **%s** is being stopped...", name))
}

func (b *Bot) cmdLeaderboard(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	entries, settings, err := b.svc.LeaderboardView(name)
	if err != nil {
		if errors.Is(err, domain.ErrNoLeaderboard) {
			b.reply(m.ChannelID, fmt.Sprintf("No leaderboard found for quiz **%s**. The quiz might not be completed yet.", name))
			return
		}
		b.replyError(m.ChannelID, name, err)
		return
	}
	if len(entries) == 0 {
		b.reply(m.ChannelID, "No participants scored any points in this quiz.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** Leaderboard (Top %d):\n", name, settings.LeaderboardCount)
	for rank, entry := range entries {
		identity := b.svc.Resolve(entry.UserID)
		who := identity.Name
		if settings.LeaderboardMention {
			who = identity.Mention
		}
		fmt.Fprintf(&sb, "%d. %s - %d points\n", rank+1, who, entry.Score)
	}
	b.replyChunked(m.ChannelID, sb.String())
}

func (b *Bot) cmdShowAnswer(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	last, err := b.svc.LastRound(name)
	if err != nil {
		b.reply(m.ChannelID, "No information found for the last question of this quiz.")
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Correct answer: **%s**\nOptions: %s",
		last.CorrectAnswer, strings.Join(last.Options, ", ")))
}

func (b *Bot) cmdFastest(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	last, err := b.svc.LastRound(name)
	if err != nil {
		b.reply(m.ChannelID, "No information found for the last question of this quiz.")
		return
	}
	if last.Fastest == nil {
		b.reply(m.ChannelID, "No one answered correctly for this question.")
		return
	}
	identity := b.svc.Resolve(last.Fastest.UserID)
	b.reply(m.ChannelID, fmt.Sprintf("Fastest correct answer: **%s** (%.2f sec)",
		identity.Name, last.Fastest.Elapsed.Seconds()))
}

func (b *Bot) cmdSendResults(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	file, err := os.Open(b.results.Filename(name))
	if err != nil {
		b.reply(m.ChannelID, fmt.Sprintf("No results file found for quiz **%s**.", name))
		return
	}
	defer file.Close()
	if _, err := b.session.ChannelFileSend(m.ChannelID, name+"_results.xlsx", file); err != nil {
		b.log.Warn("send results file failed", "quiz", name, "error", err)
	}
}

func (b *Bot) cmdQuizIDList(m *discordgo.MessageCreate, rest string) {
	name := strings.TrimSpace(rest)
	ids := b.svc.Participants(name)
	if len(ids) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("No participants found for quiz **%s**.", name))
		return
	}

	// 150 IDs per line keeps the file usable for bulk role tooling.
	var lines []string
	for i := 0; i < len(ids); i += 150 {
		end := i + 150
		if end > len(ids) {
			end = len(ids)
		}
		lines = append(lines, strings.Join(ids[i:end], " "))
	}
	reader := strings.NewReader(strings.Join(lines, "\n"))
	if _, err := b.session.ChannelFileSend(m.ChannelID, "quizidlist_"+name+".txt", reader); err != nil {
		b.log.Warn("send id list failed", "quiz", name, "error", err)
	}
}

func (b *Bot) replyError(channelID, name string, err error) {
	b.reply(channelID, errorMessage(name, err))
}

// replyChunked splits long messages at Discord's 2000 character limit.
func (b *Bot) replyChunked(channelID, text string) {
	const limit = 2000
	for len(text) > limit {
		b.reply(channelID, text[:limit])
		text = text[limit:]
	}
	if text != "" {
		b.reply(channelID, text)
	}
}

func errorMessage(name string, err error) string {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		return fmt.Sprintf("No quiz named **%s** found.", name)
	case errors.Is(err, domain.ErrQuizExists):
		return fmt.Sprintf("A quiz named **%s** already exists.", name)
	case errors.Is(err, domain.ErrQuizEmpty):
		return fmt.Sprintf("**%s** has no questions. Please add some.", name)
	case errors.Is(err, domain.ErrQuizRunning):
		return fmt.Sprintf("Quiz **%s** is currently running.", name)
	case errors.Is(err, domain.ErrSessionNotFound):
		return fmt.Sprintf("No active quiz named **%s** found.", name)
	case errors.Is(err, domain.ErrQuestionIndex):
		return "Invalid question index."
	case errors.Is(err, domain.ErrOptionIndex), errors.Is(err, domain.ErrNoOptions):
		return "Correct answer index must be within the option list."
	case errors.Is(err, domain.ErrBadDuration):
		return "Duration must be a positive number of seconds."
	default:
		return "Something went wrong: " + err.Error()
	}
}

// popArgs splits s into its first n whitespace-separated tokens and the
// trimmed remainder.
func popArgs(s string, n int) (args []string, rest string, ok bool) {
	rest = strings.TrimSpace(s)
	for i := 0; i < n; i++ {
		if rest == "" {
			return nil, "", false
		}
		if j := strings.IndexFunc(rest, unicode.IsSpace); j >= 0 {
			args = append(args, rest[:j])
			rest = strings.TrimSpace(rest[j:])
		} else {
			args = append(args, rest)
			rest = ""
		}
	}
	return args, rest, true
}

// splitQuestion parses "Question text | Option1 | Option2 | ...".
func splitQuestion(content string) (text string, options []string, ok bool) {
	parts := strings.Split(content, "|")
	if len(parts) < 2 {
		return "", nil, false
	}
	text = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		if opt := strings.TrimSpace(p); opt != "" {
			options = append(options, opt)
		}
	}
	return text, options, len(options) >= 1
}

func truthy(mode string, synonyms ...string) bool {
	mode = strings.ToLower(mode)
	for _, s := range append([]string{"true", "on", "yes", "1"}, synonyms...) {
		if mode == s {
			return true
		}
	}
	return false
}

func enabled(on bool) string {
	if on {
		return "Enabled"
	}
	return "Disabled"
}

func activeLabel(on bool) string {
	if on {
		return "active"
	}
	return "inactive"
}

func mentionLabel(mention bool) string {
	if mention {
		return "Mentions"
	}
	return "Names only"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
