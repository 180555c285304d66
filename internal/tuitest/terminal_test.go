package tuitest

import (
	"bytes"
	"testing"
)

func TestTerminalAnswersQueriesInOrder(t *testing.T) {
	var replies bytes.Buffer
	term := newTerminal(&replies, emulatorQueries(100, 40))

	term.answer([]byte("hello\x1b]11;?\x07 then \x1b[18t done"))
	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[8;40;100t"
	if replies.String() != want {
		t.Fatalf("unexpected replies %q, want %q", replies.String(), want)
	}
}

func TestTerminalAnswersSplitQuery(t *testing.T) {
	var replies bytes.Buffer
	term := newTerminal(&replies, emulatorQueries(80, 24))

	term.answer([]byte("frame text \x1b["))
	if replies.Len() != 0 {
		t.Fatalf("answered before the query was complete: %q", replies.String())
	}
	term.answer([]byte("6n"))
	if replies.String() != "\x1b[1;1R" {
		t.Fatalf("split cursor query not answered: %q", replies.String())
	}

	// Already answered queries are not answered twice.
	term.answer([]byte("more output"))
	if replies.String() != "\x1b[1;1R" {
		t.Fatalf("unexpected extra replies: %q", replies.String())
	}
}

func TestTerminalBoundsPendingBuffer(t *testing.T) {
	term := newTerminal(&bytes.Buffer{}, emulatorQueries(80, 24))
	term.answer(bytes.Repeat([]byte("x"), 4096))
	if len(term.pending) >= term.longest {
		t.Fatalf("pending buffer kept %d bytes, longest query is %d", len(term.pending), term.longest)
	}
}
