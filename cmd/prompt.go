package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/marcus/catalog/internal/models"
)

var stdin io.Reader = os.Stdin

func stdinIsTerminal() bool {
	f, ok := stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptCredentials asks for whatever the flags did not supply. Without a
// terminal, the username and password are read one per line from stdin.
func promptCredentials(username string) (models.Credentials, error) {
	var password string
	if stdinIsTerminal() {
		var fields []huh.Field
		if username == "" {
			fields = append(fields, huh.NewInput().
				Title("Username").
				Value(&username))
		}
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password))
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return models.Credentials{}, err
		}
	} else {
		want := 2
		if username != "" {
			want = 1
		}
		lines, err := readLines(stdin, want)
		if err != nil {
			return models.Credentials{}, err
		}
		if username == "" && len(lines) > 0 {
			username, lines = lines[0], lines[1:]
		}
		if len(lines) > 0 {
			password = lines[0]
		}
	}
	return models.Credentials{
		Username: strings.TrimSpace(username),
		Password: password,
	}, nil
}

// readLines reads up to n lines
func readLines(r io.Reader, n int) ([]string, error) {
	var (
		lines []string
		cur   []byte
		buf   [1]byte
	)
	// One byte at a time so input after the last wanted line stays unread.
	for len(lines) < n {
		k, err := r.Read(buf[:])
		if k == 1 {
			if buf[0] == '\n' {
				lines = append(lines, strings.TrimRight(string(cur), "\r"))
				cur = cur[:0]
			} else {
				cur = append(cur, buf[0])
			}
		}
		if err == io.EOF {
			if len(cur) > 0 {
				lines = append(lines, strings.TrimRight(string(cur), "\r"))
			}
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
	return lines, nil
}

var errNeedsConfirm = errors.New("not a terminal, pass --yes to confirm")

// confirm asks a yes/no question. It refuses without a terminal.
func confirm(title string) (bool, error) {
	if !stdinIsTerminal() {
		return false, errNeedsConfirm
	}
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&ok),
	)).Run()
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}
