package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

const helpText = `Quiz Bot Help Menu
You can create a quiz, add questions, edit questions, run the quiz, stop it, fetch the results workbook and query the last question.

{p}createquiz <quiz_name>: Create a new quiz.
{p}addq (alias: {p}a) <quiz_name> <duration> <correct_index> Question text | Option1 | Option2 | ...: Add a single question.
{p}editq <quiz_name> <question_index> <duration> <correct_index> Question text | Option1 | ...: Edit a question (1-based index).
{p}bulkadd <quiz_name>: Bulk add questions, one per line in the format duration|correct_index|Question text|Option1|Option2|...
{p}listquizzes: List all quizzes and their question counts.
{p}showquiz <quiz_name>: List all questions and correct answers of the quiz.
{p}deletequiz <quiz_name>: Delete the quiz and its results workbook.
{p}mixquestions <quiz_name> <true/false>: Set the shuffle mode.
{p}toggleanswer <quiz_name> <on/off>: Auto-show the correct answer after each question.
{p}togglefastest <quiz_name> <on/off>: Auto-show the fastest correct answer after each question.
{p}togglecorrect <quiz_name> <on/off>: Per-answer feedback for correct answers.
{p}togglewrong <quiz_name> <on/off>: Per-answer feedback for incorrect answers.
{p}setleaderboard <quiz_name> <count> <mention (true/false)>: Leaderboard display settings.
{p}startquiz <quiz_name> [shuffle/default]: Start the quiz.
{p}stopquiz <quiz_name>: Stop the active quiz at the next tick.
{p}leaderboard <quiz_name>: Show the leaderboard of the last run.
{p}showanswer <quiz_name>: Show the correct answer and options of the last question.
{p}fastest <quiz_name>: Show the fastest correct answer of the last question.
{p}sendresults <quiz_name>: Upload the results workbook.
{p}quizidlist <quiz_name>: Participant IDs as a text file, 150 per line.
{p}quizsettings: Settings of every quiz.
{p}quizhelp: This menu.
{p}ping: Replies with 'Pong!'.`

func (b *Bot) cmdHelp(m *discordgo.MessageCreate) {
	b.replyChunked(m.ChannelID, strings.ReplaceAll(helpText, "{p}", b.prefix))
}
