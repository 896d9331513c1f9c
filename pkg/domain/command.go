package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandType identifies a user intent delivered to a presenter.
type CommandType string

const (
	// Reveal controller commands.
	CmdNext     CommandType = "next"
	CmdPrevious CommandType = "previous"
	CmdGoTo     CommandType = "goto"
	CmdReset    CommandType = "reset"

	// Slide store commands.
	CmdNextSlide CommandType = "next_slide"
	CmdPrevSlide CommandType = "prev_slide"
	CmdJump      CommandType = "jump"
	CmdNextTopic CommandType = "next_topic"
	CmdPrevTopic CommandType = "prev_topic"

	// CmdAdvance reveals the next step, or moves to the next slide once the
	// current one is fully revealed.
	CmdAdvance CommandType = "advance"
)

// Command is a single input event, independent of its source (key, click, line, HTTP).
type Command struct {
	Type       CommandType `json:"command" mapstructure:"command"`
	Step       int         `json:"step,omitempty" mapstructure:"step"`
	SubTopicID string      `json:"sub_topic,omitempty" mapstructure:"sub_topic"`
}

// IsReveal reports whether the command is handled by the reveal controller.
func (c Command) IsReveal() bool {
	switch c.Type {
	case CmdNext, CmdPrevious, CmdGoTo, CmdReset:
		return true
	}
	return false
}

func (c Command) String() string {
	switch c.Type {
	case CmdGoTo:
		return fmt.Sprintf("%s %d", c.Type, c.Step)
	case CmdJump:
		return fmt.Sprintf("%s %s", c.Type, c.SubTopicID)
	default:
		return string(c.Type)
	}
}

var commandAliases = map[string]CommandType{
	"next":       CmdNext,
	"forward":    CmdNext,
	"previous":   CmdPrevious,
	"prev":       CmdPrevious,
	"back":       CmdPrevious,
	"backward":   CmdPrevious,
	"goto":       CmdGoTo,
	"go":         CmdGoTo,
	"step":       CmdGoTo,
	"reset":      CmdReset,
	"next_slide": CmdNextSlide,
	"prev_slide": CmdPrevSlide,
	"jump":       CmdJump,
	"topic":      CmdJump,
	"next_topic": CmdNextTopic,
	"prev_topic": CmdPrevTopic,
	"advance":    CmdAdvance,
}

// ParseCommand parses a textual command such as "next", "goto 3" or "jump hist2".
// Hyphens and underscores are interchangeable ("next-slide" == "next_slide").
func ParseCommand(input string) (Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}

	name := strings.ReplaceAll(fields[0], "-", "_")
	typ, ok := commandAliases[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}

	cmd := Command{Type: typ}
	switch typ {
	case CmdGoTo:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: goto requires a step number", ErrUnknownCommand)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: invalid step %q", ErrUnknownCommand, fields[1])
		}
		cmd.Step = n
	case CmdJump:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: jump requires a sub-topic id", ErrUnknownCommand)
		}
		// Sub-topic ids are case sensitive; take the original token.
		cmd.SubTopicID = strings.Fields(strings.TrimSpace(input))[1]
	default:
		if len(fields) > 1 {
			return Command{}, fmt.Errorf("%w: %q takes no arguments", ErrUnknownCommand, fields[0])
		}
	}
	return cmd, nil
}

// KeyBindings maps terminal key names to presenter commands.
// Every key that maps to the same command has the same effect.
var KeyBindings = map[string]Command{
	"right":     {Type: CmdNext},
	"down":      {Type: CmdNext},
	"space":     {Type: CmdNext},
	" ":         {Type: CmdNext},
	"l":         {Type: CmdNext},
	"j":         {Type: CmdNext},
	"left":      {Type: CmdPrevious},
	"up":        {Type: CmdPrevious},
	"h":         {Type: CmdPrevious},
	"k":         {Type: CmdPrevious},
	"home":      {Type: CmdReset},
	"pgdown":    {Type: CmdNextSlide},
	"n":         {Type: CmdNextSlide},
	"pgup":      {Type: CmdPrevSlide},
	"p":         {Type: CmdPrevSlide},
	"tab":       {Type: CmdNextTopic},
	"shift+tab": {Type: CmdPrevTopic},
	"enter":     {Type: CmdAdvance},
}

// LookupKey resolves a key name against KeyBindings.
func LookupKey(key string) (Command, bool) {
	cmd, ok := KeyBindings[key]
	return cmd, ok
}
