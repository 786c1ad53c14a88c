package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Lbqds/app-alephium/reviewer"
)

// terminalGateway renders review screens on the terminal and reads the
// approve/reject decision from the input stream. An EOF or read error
// counts as a rejection.
type terminalGateway struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalGateway(in io.Reader, out io.Writer) *terminalGateway {
	return &terminalGateway{in: bufio.NewReader(in), out: out}
}

func (g *terminalGateway) ReviewFields(message string, fields []reviewer.Field) bool {
	fmt.Fprintf(g.out, "=== %s ===\n", message)
	for _, field := range fields {
		fmt.Fprintf(g.out, "  %s: %s\n", field.Name, field.Value)
	}
	fmt.Fprint(g.out, "Approve? [y/N] ")

	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (g *terminalGateway) SyncStatus(approved bool) {
	if approved {
		fmt.Fprintln(g.out, "Transaction approved")
	} else {
		fmt.Fprintln(g.out, "Transaction rejected")
	}
}

// autoGateway approves every screen without prompting, for scripted runs.
type autoGateway struct {
	out io.Writer
}

func (g *autoGateway) ReviewFields(message string, fields []reviewer.Field) bool {
	fmt.Fprintf(g.out, "=== %s ===\n", message)
	for _, field := range fields {
		fmt.Fprintf(g.out, "  %s: %s\n", field.Name, field.Value)
	}
	return true
}

func (g *autoGateway) SyncStatus(approved bool) {
	if approved {
		fmt.Fprintln(g.out, "Transaction approved")
	} else {
		fmt.Fprintln(g.out, "Transaction rejected")
	}
}
