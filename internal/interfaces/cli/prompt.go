package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func promptPassword(w io.Writer, username string) (string, error) {
	fmt.Fprintf(w, "Password for %s: ", username)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}
