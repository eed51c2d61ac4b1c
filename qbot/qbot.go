package qbot

import (
	db "github.com/grvlle/qanda/db"
	"github.com/nlopes/slack"
	"github.com/rs/zerolog/log"
)

// QBot answers chat commands on Slack using the question database.
type QBot struct {
	// Slack settings
	Config struct {
		APIToken       string
		GeneralChannel string
		// BaseURL prefixes question links in replies.
		BaseURL string
	}

	// Websocket connection
	Slack *slack.Client
	rtm   *slack.RTM

	// IO flow
	msgCh chan Message

	// Database Connection
	DB    *db.Database
	Pages db.Pagination
}

// New returns a bot bound to database. RunBot connects it.
func New(apiToken, generalChannel, baseURL string, database *db.Database, pages db.Pagination) *QBot {
	qb := &QBot{DB: database, Pages: pages, msgCh: make(chan Message, 500)}
	qb.Config.APIToken = apiToken
	qb.Config.GeneralChannel = generalChannel
	qb.Config.BaseURL = baseURL
	return qb
}

// RunBot will initiate the bot
func (qb *QBot) RunBot() {
	qb.Slack = slack.New(qb.Config.APIToken)
	qb.rtm = qb.Slack.NewRTM()
	qb.SetupHandlers()
	qb.rtm.ManageConnection()
}

// SetupHandlers sets up the Go Routines
func (qb *QBot) SetupHandlers() {
	go qb.EventListener()
	go qb.CommandParser()
}

// Message contains the details of a recieved Slack message.
// Constructed in the EventListener method and passed in the
// messageCh
type Message struct {
	User    string
	Channel string
	Message string
}

// EventListener listens on the websocket for incoming slack
// events, including messages that it passes to the messageCh
// channel monitored by CommandParser()
func (qb *QBot) EventListener() {
	for events := range qb.rtm.IncomingEvents {
		switch ev := events.Data.(type) {
		case *slack.MessageEvent:
			qb.msgCh <- Message{User: ev.User, Channel: ev.Channel, Message: ev.Text}
		case *slack.ConnectedEvent:
			log.Info().Int("connections", ev.ConnectionCount).Msg("Connected to Slack")
			if qb.Config.GeneralChannel != "" {
				qb.rtm.SendMessage(qb.rtm.NewOutgoingMessage("qBot is online. Type `!h` for help.", qb.Config.GeneralChannel))
			}
		case *slack.RTMError:
			log.Error().Msgf("RTM Error: %s", ev.Error())
		case *slack.InvalidAuthEvent:
			log.Warn().Msg("Invalid credentials")
			return
		}
	}
}

// CommandParser parses the Slack messages for QBot commands
func (qb *QBot) CommandParser() {
	for msg := range qb.msgCh {
		cmd, err := ParseCommand(msg.Message)
		if err == ErrNotACommand {
			continue
		}
		if usage, ok := err.(*UsageError); ok {
			log.Warn().Str("channel", msg.Channel).Msg(usage.Hint)
			qb.say(msg.Channel, usage.Hint)
			continue
		}

		userInfo, err := qb.rtm.GetUserInfo(msg.User) // User that sent message
		if err != nil {
			log.Error().Err(err).Str("user", msg.User).Msg("Unable to look up Slack user")
			continue
		}
		go qb.dispatch(msg.Channel, cmd, userInfo)
	}
}

func (qb *QBot) dispatch(sChannel string, cmd *Command, userInfo *slack.User) {
	switch cmd.Kind {
	case Ask:
		qb.qHandler(sChannel, cmd, userInfo)
	case Answer:
		qb.aHandler(sChannel, cmd, userInfo)
	case ListAnswers:
		qb.laHandler(sChannel, cmd.QuestionID)
	case ListNewest:
		qb.lqHandler(sChannel)
	case ListTop:
		qb.topHandler(sChannel)
	case Search:
		qb.searchHandler(sChannel, cmd.Text)
	case Vote:
		qb.voteHandler(sChannel, cmd, userInfo)
	case Help:
		qb.helpHandler(sChannel)
	}
}

func (qb *QBot) say(sChannel, text string) {
	qb.rtm.SendMessage(qb.rtm.NewOutgoingMessage(text, sChannel))
}
