// Package control defines lightweight command messages used by the UI to
// request actions from the application command loop. The command-loop
// centralizes countdown changes so that start, pause and cancel requests
// coming from different widgets are applied in order.
package control

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdStart CommandType = iota
	CmdTogglePause
	CmdCancel
)

func (t CommandType) String() string {
	switch t {
	case CmdStart:
		return "start"
	case CmdTogglePause:
		return "toggle-pause"
	case CmdCancel:
		return "cancel"
	}
	return "unknown"
}

// Command is the message sent from the UI to AppManager.commandLoop. The
// optional Reply channel receives the outcome; for CmdStart this is the
// parse error of Selection, if any.
type Command struct {
	Type      CommandType
	Selection string     // duration selection, CmdStart only
	Reply     chan error // optional reply channel
}

// NewCommand returns a command with a buffered reply channel.
func NewCommand(t CommandType, selection string) Command {
	return Command{Type: t, Selection: selection, Reply: make(chan error, 1)}
}
