// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
)

// lineReader reads a line of user input after displaying a prompt.
type lineReader interface {
	ReadLine(prompt string) (string, error)
}

// ttyReader reads lines from an interactive terminal with line editing and
// history.  The terminal is only in raw mode while a line is read, so output
// in between is written normally.
type ttyReader struct {
	fd   int
	term *terminal.Terminal
}

func (r *ttyReader) ReadLine(prompt string) (string, error) {
	state, err := terminal.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("failed to set raw mode on stdin: %w", err)
	}
	defer terminal.Restore(r.fd, state)

	r.term.SetPrompt(prompt)
	return r.term.ReadLine()
}

// streamReader reads lines from a non-interactive stream such as a pipe.
type streamReader struct {
	r *bufio.Reader
	w io.Writer
}

func (r *streamReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.w, prompt)
	line, err := r.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// stdio joins stdin and stdout into the io.ReadWriter a terminal needs.
type stdio struct {
	io.Reader
	io.Writer
}

// newLineReader returns a reader for stdin suited to whether it is a
// terminal.
func newLineReader() lineReader {
	fd := int(os.Stdin.Fd())
	if terminal.IsTerminal(fd) {
		return &ttyReader{
			fd:   fd,
			term: terminal.NewTerminal(stdio{os.Stdin, os.Stdout}, ""),
		}
	}
	return &streamReader{r: bufio.NewReader(os.Stdin), w: os.Stdout}
}
