// Package dispatch turns CEC frames into key presses and key presses into commands.
package dispatch

import (
	"github.com/darkwater/cecctl/hardware/cec"
	"github.com/darkwater/cecctl/internal/binds"
	"github.com/darkwater/cecctl/internal/proc"
	"github.com/darkwater/cecctl/log2"
)

// Dispatcher state is touched only from HandleCommand, which the
// connection calls serially from one goroutine.
type Dispatcher struct {
	Log      *log2.Log
	binds    *binds.Table
	spawner  proc.Spawner
	children *proc.Registry

	receivedSomething bool
	lastPressed       cec.UserControlCode
	pressed           bool
}

func New(log *log2.Log, table *binds.Table, spawner proc.Spawner) *Dispatcher {
	return &Dispatcher{
		Log:      log,
		binds:    table,
		spawner:  spawner,
		children: proc.NewRegistry(log),
	}
}

// HandleCommand is cec.Config.OnCommand. Never fails, anomalies are logged.
func (self *Dispatcher) HandleCommand(cmd cec.Command) {
	self.Log.Debugf("%s -> %s: %s", cmd.Initiator, cmd.Destination, cmd.Opcode)
	self.Log.Tracef("parameters=%x", cmd.Parameters)

	if !self.receivedSomething {
		self.receivedSomething = true
		self.Log.Info("Connected to TV")
	}

	switch cmd.Opcode {
	case cec.OpUserControlPressed:
		if len(cmd.Parameters) == 1 {
			self.press(cmd.Parameters[0])
		}

	case cec.OpUserControlRelease:
		if self.pressed {
			self.pressed = false
			self.Log.Debugf("released %s", self.lastPressed)
		} else {
			self.Log.Warning("released unpressed key")
		}

	case cec.OpNone:
		self.Log.Infof("received empty packet from %s", cmd.Initiator)
	}

	self.children.Reap()
}

func (self *Dispatcher) press(b byte) {
	code, ok := cec.LookupUserControl(uint32(b))
	if !ok {
		return
	}
	name, _ := code.KeyName()
	self.lastPressed, self.pressed = code, true
	self.Log.Debugf("pressed %s", name)

	command, ok := self.binds.Lookup(name)
	if !ok {
		self.Log.Infof("unbound key pressed: %s", name)
		return
	}

	self.Log.Debugf("running %q", command)
	child, err := self.spawner.Spawn(command)
	if err != nil {
		self.Log.Errorf("key=%s %v", name, err)
		return
	}
	self.children.Append(child)
}

func (self *Dispatcher) ReceivedSomething() bool { return self.receivedSomething }

// LastPressed is the key held since the last press, if any.
func (self *Dispatcher) LastPressed() (cec.UserControlCode, bool) {
	return self.lastPressed, self.pressed
}

func (self *Dispatcher) Children() int { return self.children.Len() }
