// Package proc spawns bound commands and keeps track of them until they exit.
package proc

import (
	"os"
	"os/exec"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

const DefaultShell = "/bin/sh"

type Child interface {
	Pid() int
	// TryWait polls without blocking. On error the child state is unknown.
	TryWait() (exited bool, err error)
}

type Spawner interface {
	Spawn(command string) (Child, error)
}

// ShellSpawner runs `Shell -c command` with daemon environment, working
// directory, stdout and stderr. Stdin is the null device.
type ShellSpawner struct {
	Shell string
}

func (self ShellSpawner) Spawn(command string) (Child, error) {
	shell := self.Shell
	if shell == "" {
		shell = DefaultShell
	}
	cmd := exec.Command(shell, "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, errors.Annotatef(err, "spawn %s -c %q", shell, command)
	}
	return &osChild{p: cmd.Process}, nil
}

type osChild struct {
	p      *os.Process
	exited bool
}

func (self *osChild) Pid() int { return self.p.Pid }

func (self *osChild) TryWait() (bool, error) {
	if self.exited {
		return true, nil
	}
	var ws unix.WaitStatus
	pid, err := unix.Wait4(self.p.Pid, &ws, unix.WNOHANG, nil)
	switch {
	case err == unix.EINTR:
		return false, nil
	case err != nil:
		return false, errors.Annotatef(err, "wait4 pid=%d", self.p.Pid)
	case pid == 0:
		return false, nil
	}
	self.exited = true
	_ = self.p.Release()
	return true, nil
}
