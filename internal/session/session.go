// Package session opens the adapter with the dispatcher installed and keeps it
// running until asked to stop.
package session

import (
	"context"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"

	"github.com/darkwater/cecctl/hardware/cec"
	"github.com/darkwater/cecctl/internal/binds"
	"github.com/darkwater/cecctl/internal/config"
	"github.com/darkwater/cecctl/internal/dispatch"
	"github.com/darkwater/cecctl/internal/proc"
	"github.com/darkwater/cecctl/log2"
)

// Conn is the part of *cec.Connection session needs.
type Conn interface {
	SetActiveSource() error
	Done() <-chan struct{}
	Err() error
	Close() error
}

type Opener func(log *log2.Log, config cec.Config) (Conn, error)

func OpenCEC(log *log2.Log, config cec.Config) (Conn, error) {
	c, err := cec.Open(log, config)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type Session struct {
	Log       *log2.Log
	Config    *config.Config
	TakeFocus bool

	// defaults: OpenCEC, proc.ShellSpawner, SdNotify
	Open    Opener
	Spawner proc.Spawner
	Notify  func(state string) bool

	dispatcher *dispatch.Dispatcher
}

// Run returns nil when ctx is done, error on start failure or lost adapter.
func (self *Session) Run(ctx context.Context) error {
	open := self.Open
	if open == nil {
		open = OpenCEC
	}
	spawner := self.Spawner
	if spawner == nil {
		spawner = proc.ShellSpawner{}
	}
	notify := self.Notify
	if notify == nil {
		notify = self.sdnotify
	}

	pa, err := self.Config.Physical()
	if err != nil {
		return errors.Annotate(err, "failed to build cec config")
	}
	self.dispatcher = dispatch.New(self.Log, binds.New(self.Config.Binds), spawner)

	self.Log.Info("Connecting to TV...")
	conn, err := open(self.Log, cec.Config{
		Port:            self.Config.Port,
		DeviceName:      self.Config.DisplayName,
		DeviceType:      cec.DevicePlayback,
		PhysicalAddress: pa,
		OnCommand:       self.dispatcher.HandleCommand,
	})
	if err != nil {
		return errors.Annotate(err, "failed to open cec connection")
	}
	defer conn.Close()

	if self.TakeFocus {
		if err = conn.SetActiveSource(); err != nil {
			return errors.Trace(err)
		}
	}
	notify(daemon.SdNotifyReady)

	select {
	case <-ctx.Done():
		self.Log.Debug("stopping")
		return nil
	case <-conn.Done():
		err = conn.Err()
		if err == nil {
			err = cec.ErrClosed
		}
		return errors.Annotate(err, "cec connection lost")
	}
}

// sdnotify is no-op outside systemd.
func (self *Session) sdnotify(state string) bool {
	ok, err := daemon.SdNotify(false, state)
	if err != nil {
		self.Log.Errorf("sdnotify: %v", err)
	}
	return ok
}
