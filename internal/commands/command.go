package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeDrop   Type = "drop"
	TypeEdit   Type = "edit"
	TypePick   Type = "pick"
	TypeCheck  Type = "check"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// DoneArgs targets the active todo at Index, or the todo in focus when
// HasIndex is false. Days of 0 means the default interval.
type DoneArgs struct {
	Index    int
	HasIndex bool
	Days     int
}

// IndexArgs carries a zero-based position. Users type positions starting at 1.
type IndexArgs struct {
	Index int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Delete *IndexArgs
	Drop   *IndexArgs
	Edit   *IndexArgs
}

var aliases = map[string]Type{
	"a":      TypeAdd,
	"d":      TypeDone,
	"rm":     TypeDelete,
	"del":    TypeDelete,
	"e":      TypeEdit,
	"p":      TypePick,
	"random": TypePick,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	if alias, ok := aliases[head]; ok {
		head = string(alias)
	}

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeDelete, TypeDrop, TypeEdit:
		return parseIndexed(input, Type(head), args)
	case TypePick, TypeCheck:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) > 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done takes at most an index and a number of days"}
	}
	done := &DoneArgs{}
	if len(args) >= 1 {
		idx, err := ParsePosition(args[0])
		if err != nil {
			return Command{}, err
		}
		done.Index, done.HasIndex = idx, true
	}
	if len(args) == 2 {
		days, err := strconv.Atoi(args[1])
		if err != nil || days < 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("days must be a whole number of at least 1: %q", args[1])}
		}
		done.Days = days
	}
	return Command{Type: TypeDone, Raw: raw, Done: done}, nil
}

func parseIndexed(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one position", typ)}
	}
	idx, err := ParsePosition(args[0])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Type: typ, Raw: raw}
	switch typ {
	case TypeDelete:
		cmd.Delete = &IndexArgs{Index: idx}
	case TypeDrop:
		cmd.Drop = &IndexArgs{Index: idx}
	case TypeEdit:
		cmd.Edit = &IndexArgs{Index: idx}
	}
	return cmd, nil
}

// ParsePosition converts a 1-based position typed by a user into a
// zero-based index.
func ParsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n < 1 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("position must be a number of at least 1: %q", s)}
	}
	return n - 1, nil
}
