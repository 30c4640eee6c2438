package subcmd

import (
	"context"
	"fmt"

	"github.com/darkwater/cecctl/hardware/cec"
)

var KeysMod = Mod{Name: "keys", Usage: "list key names usable in [binds]", Main: Keys}

func Keys(ctx context.Context, env *Env) error {
	for _, k := range cec.Keys() {
		if _, err := fmt.Fprintf(env.Stdout, "0x%02x  %s\n", uint8(k.Code), k.Key); err != nil {
			return err
		}
	}
	return nil
}
