package subcmd

import (
	"context"

	"github.com/darkwater/cecctl/internal/session"
)

var RunMod = Mod{Name: "run", Usage: "connect to TV and run bound commands (default)", Main: Run}

func Run(ctx context.Context, env *Env) error {
	c, err := env.LoadConfig()
	if err != nil {
		return err
	}
	env.Log.Debugf("config=%+v", c)
	s := &session.Session{
		Log:       env.Log,
		Config:    c,
		TakeFocus: env.TakeFocus,
	}
	return s.Run(ctx)
}
