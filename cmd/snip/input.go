package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/term"
)

var (
	stdin io.Reader = os.Stdin

	// stdinIsTerminal reports whether stdin is interactive. Piped input is
	// read; a terminal without an argument is a usage error.
	stdinIsTerminal = func() bool {
		f, ok := stdin.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}

	errNoInput = errors.New("no argument given and stdin is a terminal")
)

// readAllInput returns arg when present, otherwise all of stdin.
func readAllInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if stdinIsTerminal() {
		return "", errNoInput
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readLineInput returns arg when present, otherwise the first stdin line
// without trailing whitespace.
func readLineInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if stdinIsTerminal() {
		return "", errNoInput
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRightFunc(line, unicode.IsSpace), nil
}
