package qbot

import (
	"fmt"

	db "github.com/grvlle/qanda/db"
	models "github.com/grvlle/qanda/model"
	"github.com/grvlle/qanda/slug"
	"github.com/nlopes/slack"
	"github.com/rs/zerolog/log"
)

const (
	colorAnswered   = "#36a64f"
	colorUnanswered = "#1D9BD1"
)

// Reply is used to construct formatted replies
type Reply struct {
	Body        string
	Blocks      []slack.Block
	Attachments []slack.Attachment
	AsUser      bool
}

// PostFormattedReply takes a pointer to the Slack Client and a
// Reply and posts it to the requesting channel
func PostFormattedReply(client *slack.Client, sChannel string, r *Reply) (string, error) {
	_, ts, err := client.PostMessage(
		sChannel,
		slack.MsgOptionText(r.Body, false),
		slack.MsgOptionBlocks(r.Blocks...),
		slack.MsgOptionAttachments(r.Attachments...),
		slack.MsgOptionAsUser(r.AsUser),
		slack.MsgOptionEnableLinkUnfurl(),
	)
	if err != nil {
		log.Error().Err(err).Str("channel", sChannel).Msg("Unable to Post Message to channel")
	}
	return ts, err
}

func displayName(userInfo *slack.User) string {
	if userInfo.Profile.RealName != "" {
		return userInfo.Profile.RealName
	}
	return userInfo.Name
}

// questionLink is the absolute url of a question for chat replies.
func (qb *QBot) questionLink(id uint, text string) string {
	if s := slug.Slugify(text); s != "" {
		return fmt.Sprintf("%s/question/%d/%s", qb.Config.BaseURL, id, s)
	}
	return fmt.Sprintf("%s/question/%d", qb.Config.BaseURL, id)
}

// listingAttachments renders one attachment per question. Answered
// questions are colored green, unanswered ones blue.
func (qb *QBot) listingAttachments(page *db.Page, answers map[uint]int) []slack.Attachment {
	atts := make([]slack.Attachment, 0, len(page.Questions))
	for _, q := range page.Questions {
		color := colorUnanswered
		if answers[q.ID] > 0 {
			color = colorAnswered
		}
		atts = append(atts, slack.Attachment{
			Color:     color,
			Title:     fmt.Sprintf("Question ID %v:", q.ID),
			TitleLink: qb.questionLink(q.ID, q.Text),
			Text:      q.Text,
			Footer:    fmt.Sprintf("%d answers | %d votes", answers[q.ID], q.VoteTotal),
		})
	}
	return atts
}

func (qb *QBot) postListing(sChannel, intro string, page *db.Page, err error) {
	if err != nil {
		log.Error().Err(err).Msg("Unable to list questions")
		qb.say(sChannel, "I had problems reading questions from the DB")
		return
	}
	if len(page.Questions) == 0 {
		qb.say(sChannel, "No questions found.")
		return
	}
	answers, err := qb.DB.AnswerCounts(page.IDs())
	if err != nil {
		log.Error().Err(err).Msg("Unable to count answers")
		qb.say(sChannel, "I had problems reading questions from the DB")
		return
	}
	PostFormattedReply(qb.Slack, sChannel, &Reply{Body: intro, Attachments: qb.listingAttachments(page, answers), AsUser: true})
}

// qHandler triggers when a slack user uses !q to provide a question.
// It will update the database with the question and add non-existing users as well.
func (qb *QBot) qHandler(sChannel string, cmd *Command, userInfo *slack.User) {
	user, err := qb.DB.EnsureSlackUser(userInfo.ID, displayName(userInfo))
	if err != nil {
		log.Error().Err(err).Msg("Unable to store Slack user")
		qb.say(sChannel, "I had problems storing your question in the DB")
		return
	}
	tagIDs, err := qb.DB.TagIDs(cmd.Tags)
	if err != nil {
		log.Error().Err(err).Msg("Unable to resolve tags")
		qb.say(sChannel, "I had problems storing your question in the DB")
		return
	}
	if len(tagIDs) == 0 {
		qb.say(sChannel, "None of those tags exist. Ask with at least one known tag.")
		return
	}
	q, err := qb.DB.InsertQuestion(user.ID, tagIDs, cmd.Text, 1)
	if err != nil {
		log.Error().Err(err).Msg("Unable to store question")
		qb.say(sChannel, "I had problems storing your question in the DB")
		return
	}
	qb.say(sChannel, fmt.Sprintf("Thank you %s for providing a question. Your question has been assigned ID: %v\n%s",
		user.Name, q.ID, qb.questionLink(q.ID, q.Text)))
}

// aHandler triggers when a slack user uses !a to provide an answer.
func (qb *QBot) aHandler(sChannel string, cmd *Command, userInfo *slack.User) {
	user, err := qb.DB.EnsureSlackUser(userInfo.ID, displayName(userInfo))
	if err != nil {
		log.Error().Err(err).Msg("Unable to store Slack user")
		qb.say(sChannel, "I had problems storing your provided answer in the DB")
		return
	}
	if _, err := qb.DB.InsertAnswer(user.ID, cmd.QuestionID, cmd.Text); err != nil {
		if db.IsNotFound(err) {
			qb.say(sChannel, fmt.Sprintf("There is no question %v. Did you specify the Question ID correctly?", cmd.QuestionID))
			return
		}
		log.Error().Err(err).Msg("Unable to store answer")
		qb.say(sChannel, "I had problems storing your provided answer in the DB")
		return
	}
	qb.say(sChannel, fmt.Sprintf("Thank you %s for providing an answer to question %v!", user.Name, cmd.QuestionID))
}

// answerAttachments renders a question followed by one attachment per
// answer, oldest first.
func answerAttachments(q *models.Question, answers []models.Answer, authors map[uint]string) []slack.Attachment {
	atts := []slack.Attachment{{
		Color:   colorUnanswered,
		Pretext: fmt.Sprintf("*Question ID %v* asked by _%v_:", q.ID, authors[q.UserID]),
		Text:    q.Text,
	}}
	for _, a := range answers {
		atts = append(atts, slack.Attachment{
			Color:  colorAnswered,
			Text:   a.Text,
			Footer: "Answered by " + authors[a.UserID],
		})
	}
	return atts
}

// laHandler triggers when slack user types !la <Question ID>.
// Replies with all answers provided to the question.
func (qb *QBot) laHandler(sChannel string, questionID uint) {
	q, err := qb.DB.QuestionByID(questionID)
	if err != nil {
		if db.IsNotFound(err) {
			qb.say(sChannel, fmt.Sprintf("There is no question %v.", questionID))
			return
		}
		log.Error().Err(err).Msg("Unable to read question")
		qb.say(sChannel, "I had problems reading questions from the DB")
		return
	}
	answers, err := qb.DB.AnswersFor(questionID)
	if err != nil {
		log.Error().Err(err).Msg("Unable to list answers")
		qb.say(sChannel, "I had problems reading questions from the DB")
		return
	}
	if len(answers) == 0 {
		qb.say(sChannel, "This question has not been answered yet. To provide an answer use `!a <Question ID> <Answer>`")
		return
	}

	authors := map[uint]string{}
	for _, id := range append([]uint{q.UserID}, answerAuthors(answers)...) {
		if _, ok := authors[id]; ok {
			continue
		}
		if user, err := qb.DB.UserByID(id); err == nil {
			authors[id] = user.Name
		}
	}
	PostFormattedReply(qb.Slack, sChannel, &Reply{Attachments: answerAttachments(q, answers, authors), AsUser: true})
}

func answerAuthors(answers []models.Answer) []uint {
	ids := make([]uint, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.UserID)
	}
	return ids
}

// lqHandler lists the most recently asked questions.
func (qb *QBot) lqHandler(sChannel string) {
	page, err := qb.DB.NewestQuestions(qb.Pages.RelatedPageSize, 1)
	qb.postListing(sChannel, "Below is a list of the most recent questions asked. The green color marks answered questions. Use `!la <Question ID>` to list the answers.", page, err)
}

// topHandler lists the best voted questions.
func (qb *QBot) topHandler(sChannel string) {
	page, err := qb.DB.TopQuestions(qb.Pages.RelatedPageSize, 1)
	qb.postListing(sChannel, "Top voted questions:", page, err)
}

func (qb *QBot) searchHandler(sChannel, text string) {
	page, err := qb.DB.SearchQuestions(text, qb.Pages.RelatedPageSize, 1)
	qb.postListing(sChannel, fmt.Sprintf("Questions matching _%s_:", text), page, err)
}

func (qb *QBot) voteHandler(sChannel string, cmd *Command, userInfo *slack.User) {
	user, err := qb.DB.EnsureSlackUser(userInfo.ID, displayName(userInfo))
	if err != nil {
		log.Error().Err(err).Msg("Unable to store Slack user")
		qb.say(sChannel, "I had problems storing your vote in the DB")
		return
	}
	if _, err := qb.DB.CastVote(user.ID, cmd.QuestionID, cmd.Vote); err != nil {
		if db.IsNotFound(err) {
			qb.say(sChannel, fmt.Sprintf("There is no question %v.", cmd.QuestionID))
			return
		}
		log.Error().Err(err).Msg("Unable to store vote")
		qb.say(sChannel, "I had problems storing your vote in the DB")
		return
	}
	total, err := qb.DB.VoteTotal(cmd.QuestionID)
	if err != nil {
		log.Error().Err(err).Msg("Unable to sum votes")
		return
	}
	qb.say(sChannel, fmt.Sprintf("Vote counted. Question %v now has %d votes.", cmd.QuestionID, total))
}

func (qb *QBot) helpHandler(sChannel string) {
	title := ":information_source: HOW TO USE QBOT?"
	text := "Below is a list of all available bot commands.\n\n" +
		"· `!h` or `!help` will display the Help Information you're looking at right now.\n" +
		"· `!q #tag <question>` is used when asking a question. At least one known tag is required.\n" +
		"· `!a <question ID> <answer>` is used when providing an answer to a question.\n" +
		"· `!la <question ID>` lists the answers provided to a question.\n" +
		"· `!lq` lists the latest questions. Green marks answered questions, blue unanswered ones.\n" +
		"· `!top` lists the best voted questions.\n" +
		"· `!s <text>` searches questions, answers and tags.\n" +
		"· `!up <question ID>` and `!down <question ID>` vote on a question.\n"
	att := []slack.Attachment{{Color: colorUnanswered, Title: title, Text: text, Footer: "qBot"}}
	PostFormattedReply(qb.Slack, sChannel, &Reply{Attachments: att, AsUser: true})
}
