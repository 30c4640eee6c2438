// Support sub-commands in cecctl.
// It's simple but fine so far.
package subcmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"

	"github.com/darkwater/cecctl/internal/config"
	"github.com/darkwater/cecctl/log2"
)

type Env struct {
	Log        *log2.Log
	Stdout     io.Writer
	FS         config.FullReader
	ConfigPath string // empty = config.DefaultPath()
	TakeFocus  bool
}

type Mod struct {
	Name  string
	Usage string
	Main  func(context.Context, *Env) error
}

func Parse(command string, modules []Mod) (*Mod, error) {
	if command == "" {
		return nil, errors.Errorf("empty command")
	}

	var found *Mod
	for i := range modules {
		m := &modules[i]
		if m.Name == "" {
			panic(fmt.Sprintf("code error Name='' module=%#v", m))
		}
		if command == m.Name {
			found = m
			break
		}
	}
	if found == nil {
		return nil, errors.NotFoundf("command=%s", command)
	}
	return found, nil
}

// Help lists modules one per line.
func Help(modules []Mod) string {
	var b strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&b, "  %-6s %s\n", m.Name, m.Usage)
	}
	return b.String()
}

// LoadConfig reads config or prints where it's expected with an example.
func (self *Env) LoadConfig() (*config.Config, error) {
	path := self.ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	fs := self.FS
	if fs == nil {
		fs = config.NewOsFullReader()
	}
	c, err := config.Read(self.Log, fs, path)
	if err != nil {
		config.WriteBanner(self.Stdout, path)
		return nil, errors.Annotate(err, "failed to load config")
	}
	return c, nil
}
