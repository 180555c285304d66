package tuitest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
)

// terminalQuery is something the program asks the terminal, paired with the
// reply an emulator would send. Bubble Tea and termenv block on some of these
// at startup.
type terminalQuery struct {
	ask   string
	reply string
}

func emulatorQueries(width, height int) []terminalQuery {
	return []terminalQuery{
		{ask: "\x1b[6n", reply: "\x1b[1;1R"},
		{ask: "\x1b[18t", reply: fmt.Sprintf("\x1b[8;%d;%dt", height, width)},
		{ask: "\x1b]10;?\x07", reply: "\x1b]10;rgb:cccc/cccc/cccc\x07"},
		{ask: "\x1b]10;?\x1b\\", reply: "\x1b]10;rgb:cccc/cccc/cccc\x1b\\"},
		{ask: "\x1b]11;?\x07", reply: "\x1b]11;rgb:0000/0000/0000\x07"},
		{ask: "\x1b]11;?\x1b\\", reply: "\x1b]11;rgb:0000/0000/0000\x1b\\"},
	}
}

// terminal is the PTY side of the harness.
type terminal struct {
	pty     *os.File
	replies io.Writer
	queries []terminalQuery
	longest int
	pending []byte
}

func startTerminal(cmd *exec.Cmd, width, height int) (*terminal, error) {
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	if err != nil {
		return nil, err
	}
	t := newTerminal(f, emulatorQueries(width, height))
	t.pty = f
	return t, nil
}

func newTerminal(replies io.Writer, queries []terminalQuery) *terminal {
	t := &terminal{replies: replies, queries: queries}
	for _, q := range queries {
		t.longest = max(t.longest, len(q.ask))
	}
	return t
}

func (t *terminal) Write(p []byte) (int, error) {
	return t.pty.Write(p)
}

func (t *terminal) Close() error {
	return t.pty.Close()
}

// pump copies program output into screen until the PTY closes, answering
// queries on the way.
func (t *terminal) pump(screen io.Writer) {
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			t.answer(buf[:n])
			_, _ = screen.Write(buf[:n])
		}
		if err != nil {
			// Linux reports a closed PTY as EIO.
			return
		}
	}
}

func (t *terminal) answer(chunk []byte) {
	t.pending = append(t.pending, chunk...)
	for {
		idx, q := t.nextQuery()
		if idx < 0 {
			break
		}
		t.pending = t.pending[idx+len(q.ask):]
		_, _ = io.WriteString(t.replies, q.reply)
	}
	// A query split across reads is at most one byte short of the longest.
	if keep := max(t.longest-1, 0); len(t.pending) > keep {
		t.pending = append(t.pending[:0], t.pending[len(t.pending)-keep:]...)
	}
}

func (t *terminal) nextQuery() (int, terminalQuery) {
	first, match := -1, terminalQuery{}
	for _, q := range t.queries {
		idx := bytes.Index(t.pending, []byte(q.ask))
		if idx >= 0 && (first < 0 || idx < first) {
			first, match = idx, q
		}
	}
	return first, match
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}
