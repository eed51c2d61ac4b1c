package qbot

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies a bot command.
type Kind int

const (
	Ask Kind = iota
	Answer
	ListAnswers
	ListNewest
	ListTop
	Search
	Vote
	Help
)

// Command is a parsed chat message.
type Command struct {
	Kind       Kind
	QuestionID uint
	Tags       []string
	Text       string
	Vote       int
}

// ErrNotACommand is returned for messages the bot should ignore.
var ErrNotACommand = errors.New("not a qbot command")

// UsageError is returned for a known command with missing or malformed
// arguments. Hint is meant to be sent back to the user.
type UsageError struct {
	Hint string
}

func (e *UsageError) Error() string {
	return e.Hint
}

// ParseCommand turns a chat message into a Command. Commands are
// matched case-insensitively:
//
//	!q #tag [#tag...] <question>
//	!a <question ID> <answer>
//	!la <question ID>
//	!lq | !top | !s <text> | !up <ID> | !down <ID> | !h
func ParseCommand(message string) (*Command, error) {
	message = strings.TrimSpace(message)
	fields := strings.Fields(message)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "!") {
		return nil, ErrNotACommand
	}
	rest := strings.TrimSpace(message[len(fields[0]):])
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "!q":
		cmd := &Command{Kind: Ask}
		for len(args) > 0 && strings.HasPrefix(args[0], "#") {
			if tag := strings.TrimPrefix(args[0], "#"); tag != "" {
				cmd.Tags = append(cmd.Tags, strings.ToLower(tag))
			}
			rest = strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
			args = args[1:]
		}
		cmd.Text = rest
		if len(cmd.Tags) == 0 || cmd.Text == "" {
			return nil, &UsageError{"Please tag your question and ask it, e.g. '!q #go #sql How do I scan a NULL column?'"}
		}
		return cmd, nil

	case "!a":
		id, err := idParser(rest)
		if err != nil {
			return nil, &UsageError{"Please include an ID for the question you're answering\n E.g '!a 123 The answer is no!'"}
		}
		text := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		if text == "" {
			return nil, &UsageError{"No answer was provided, please try again"}
		}
		return &Command{Kind: Answer, QuestionID: id, Text: text}, nil

	case "!la":
		id, err := idParser(rest)
		if err != nil {
			return nil, &UsageError{"Please include an ID for the question you're trying to list the answers for\n E.g '!la 123'"}
		}
		return &Command{Kind: ListAnswers, QuestionID: id}, nil

	case "!lq":
		return &Command{Kind: ListNewest}, nil

	case "!top":
		return &Command{Kind: ListTop}, nil

	case "!s", "!search":
		if rest == "" {
			return nil, &UsageError{"What should I search for? E.g '!s goroutine leak'"}
		}
		return &Command{Kind: Search, Text: rest}, nil

	case "!up", "!down":
		id, err := idParser(rest)
		if err != nil {
			return nil, &UsageError{"Please include the ID of the question you're voting on\n E.g '!up 123'"}
		}
		vote := 1
		if strings.ToLower(fields[0]) == "!down" {
			vote = -1
		}
		return &Command{Kind: Vote, QuestionID: id, Vote: vote}, nil

	case "!h", "!help":
		return &Command{Kind: Help}, nil
	}
	return nil, ErrNotACommand
}

// Verifies that the first element is a question ID and returns it
func idParser(message string) (uint, error) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return 0, errors.New("no question ID given")
	}
	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("%q is not a question ID", fields[0])
	}
	return uint(id), nil
}
