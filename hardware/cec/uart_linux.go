//go:build linux
// +build linux

package cec

import (
	"sync"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

type fileUart struct {
	mu sync.Mutex
	fd int
}

func NewFileUart() Uarter { return &fileUart{fd: -1} }

func (self *fileUart) Open(path string, baud int) error {
	speed, ok := baudRates[baud]
	if !ok {
		return errors.NotSupportedf("baud=%d", baud)
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.fd >= 0 {
		_ = unix.Close(self.fd)
		self.fd = -1
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return errors.Annotatef(err, "open path=%s", path)
	}
	if err = ioResetTermios(fd, speed); err != nil {
		_ = unix.Close(fd)
		return errors.Annotatef(err, "termios path=%s", path)
	}
	self.fd = fd
	return nil
}

// raw 8N1, read returns after 1/10s without data
func ioResetTermios(fd int, speed uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return errors.Trace(err)
	}
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	t.Ispeed = speed
	t.Ospeed = speed
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = uint8(uartReadTimeout.Milliseconds() / 100)
	if err = unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH))
}

func (self *fileUart) Read(p []byte) (int, error) {
	n, err := unix.Read(self.fd, p)
	if err == unix.EINTR || err == unix.EAGAIN {
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

func (self *fileUart) Write(p []byte) (int, error) {
	n, err := unix.Write(self.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (self *fileUart) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.fd < 0 {
		return nil
	}
	err := unix.Close(self.fd)
	self.fd = -1
	return err
}
