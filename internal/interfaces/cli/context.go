package cli

import (
	"io"
	"os"

	"github.com/lite-lake/tenten-ddns/internal/constants"
)

type Context struct {
	ConfigPath  string
	IP          string
	Verbose     bool
	ShowVersion bool

	Stdout io.Writer
	Stderr io.Writer
}

func NewContext() *Context {
	return &Context{
		ConfigPath: constants.DefaultConfigFile,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}
