package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// TerminalNotifier renders the notification surface on a terminal:
// green text for informational messages, red for warnings, and a
// spinner for long-running operations.
type TerminalNotifier struct {
	out io.Writer
	sp  *spinner.Spinner
}

func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

func (n *TerminalNotifier) Notify(msg string, modal bool) {
	n.stopSpinner()
	fmt.Fprintln(n.out, color.GreenString(msg))
}

func (n *TerminalNotifier) Warn(msg string, modal bool) {
	n.stopSpinner()
	fmt.Fprintln(n.out, color.RedString(msg))
}

func (n *TerminalNotifier) Progress(msg string) {
	n.stopSpinner()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(n.out))
	s.Suffix = " " + msg
	s.Start()
	n.sp = s
}

func (n *TerminalNotifier) Hide() {
	n.stopSpinner()
}

func (n *TerminalNotifier) stopSpinner() {
	if n.sp != nil {
		n.sp.Stop()
		n.sp = nil
	}
}
