package cec

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/darkwater/cecctl/log2"
)

const pingInterval = 15 * time.Second

type Config struct {
	Port            string
	DeviceName      string
	DeviceType      DeviceType
	PhysicalAddress PhysicalAddress
	// OnCommand receives every frame, serially, on one goroutine owned by Connection.
	OnCommand func(Command)
	// nil means serial device at Port
	Uarter Uarter
}

type Stats struct {
	Address         LogicalAddress
	Firmware        uint16
	SinceLastRecv   time.Duration
	DroppedGarbage  uint64
	PhysicalAddress PhysicalAddress
}

// Connection is an open adapter registered on the bus as one logical device.
type Connection struct {
	Log      *log2.Log
	config   Config
	osdName  []byte
	adapter  *adapter
	alive    *alive.Alive
	uart     Uarter
	address  LogicalAddress
	firmware uint16

	closeOnce sync.Once
}

// Open connects to the adapter, claims a logical address and starts
// delivering frames to config.OnCommand.
func Open(log *log2.Log, config Config) (*Connection, error) {
	if config.Port == "" && config.Uarter == nil {
		return nil, errors.NotValidf("cec port empty")
	}
	if config.PhysicalAddress == PhysicalAddressInvalid {
		return nil, errors.NotValidf("cec physical address=%s", config.PhysicalAddress)
	}
	self := &Connection{
		Log:     log,
		config:  config,
		alive:   alive.NewAlive(),
		uart:    config.Uarter,
		address: AddrUnregistered,
	}
	if self.uart == nil {
		self.uart = NewFileUart()
	}
	var truncated bool
	self.osdName, truncated = EncodeOSDName(config.DeviceName)
	if truncated {
		log.Warningf("cec display name=%q truncated to %q", config.DeviceName, self.osdName)
	}

	if err := self.uart.Open(config.Port, DefaultBaud); err != nil {
		return nil, errors.Annotatef(err, "cec port=%s", config.Port)
	}
	self.adapter = newAdapter(log, self.uart, self.alive)
	self.adapter.start()
	if err := self.init(); err != nil {
		_ = self.Close()
		return nil, err
	}

	if self.alive.Add(2) {
		go self.callbackLoop()
		go self.pingLoop()
	}
	return self, nil
}

func (self *Connection) init() error {
	if _, err := self.adapter.request(msgPing); err != nil {
		return errors.Annotatef(err, "cec adapter port=%s did not answer ping", self.config.Port)
	}
	if m, err := self.adapter.request(msgFirmwareVersion); err != nil {
		self.Log.Debugf("cec adapter firmware version unknown: %v", err)
	} else if m.code == msgFirmwareVersion && len(m.params) >= 2 {
		self.firmware = binary.BigEndian.Uint16(m.params)
	}
	self.Log.Debugf("cec adapter firmware=%d", self.firmware)

	if _, err := self.adapter.request(msgSetControlled, 1); err != nil {
		return errors.Annotate(err, "cec adapter set controlled mode")
	}

	address, err := self.allocateAddress()
	if err != nil {
		return errors.Annotate(err, "cec logical address allocation")
	}
	self.address = address
	mask := uint16(1) << address
	if _, err := self.adapter.request(msgSetAckMask, byte(mask>>8), byte(mask)); err != nil {
		return errors.Annotatef(err, "cec adapter set ack mask=%04x", mask)
	}
	self.Log.Infof("cec registered as %s physical=%s name=%q", address, self.config.PhysicalAddress, self.osdName)

	if err := self.reportPhysicalAddress(); err != nil {
		self.Log.Warningf("cec report physical address: %v", err)
	}
	return nil
}

// A candidate is free when a poll to it is not acknowledged.
func (self *Connection) allocateAddress() (LogicalAddress, error) {
	for _, candidate := range self.config.DeviceType.Addresses() {
		err := self.adapter.transmit(NewPoll(candidate, candidate))
		switch {
		case IsNoAck(err):
			return candidate, nil
		case err == nil:
			self.Log.Debugf("cec logical address %s taken", candidate)
		default:
			return AddrUnregistered, errors.Annotatef(err, "poll %s", candidate)
		}
	}
	self.Log.Warningf("cec no free logical address for device type %s, using %s", self.config.DeviceType, AddrUnregistered)
	return AddrUnregistered, nil
}

func (self *Connection) reportPhysicalAddress() error {
	pa := self.config.PhysicalAddress.Bytes()
	return self.Transmit(NewCommand(self.address, AddrBroadcast, OpReportPhysicalAddress, pa[0], pa[1], byte(self.config.DeviceType)))
}

func (self *Connection) callbackLoop() {
	defer self.alive.Done()
	stopch := self.alive.StopChan()
	for {
		select {
		case cmd := <-self.adapter.frames:
			self.housekeeping(cmd)
			if self.config.OnCommand != nil {
				self.config.OnCommand(cmd)
			}
		case <-stopch:
			return
		}
	}
}

// housekeeping answers the mandatory queries any CEC device must serve.
func (self *Connection) housekeeping(cmd Command) {
	if !cmd.OpcodeSet || cmd.Initiator == self.address || cmd.Destination != self.address {
		return
	}
	var reply Command
	switch cmd.Opcode {
	case OpGiveOsdName:
		reply = NewCommand(self.address, cmd.Initiator, OpSetOsdName, self.osdName...)
	case OpGivePhysicalAddress:
		pa := self.config.PhysicalAddress.Bytes()
		reply = NewCommand(self.address, AddrBroadcast, OpReportPhysicalAddress, pa[0], pa[1], byte(self.config.DeviceType))
	case OpGetCecVersion:
		reply = NewCommand(self.address, cmd.Initiator, OpCecVersion, Version14)
	case OpGiveDevicePowerStatus:
		reply = NewCommand(self.address, cmd.Initiator, OpReportPowerStatus, PowerStatusOn)
	case OpGiveDeviceVendorId:
		reply = NewCommand(self.address, cmd.Initiator, OpFeatureAbort, byte(cmd.Opcode), AbortUnrecognizedOpcode)
	default:
		return
	}
	if err := self.Transmit(reply); err != nil {
		self.Log.Debugf("cec reply to %s: %v", cmd.String(), err)
	}
}

func (self *Connection) pingLoop() {
	defer self.alive.Done()
	tick := time.NewTicker(pingInterval)
	defer tick.Stop()
	stopch := self.alive.StopChan()
	for {
		select {
		case <-tick.C:
			if _, err := self.adapter.request(msgPing); err != nil {
				if errors.Cause(err) == ErrClosed {
					return
				}
				self.Log.Errorf("cec adapter ping: %v (last traffic %s ago)", err, self.Stats().SinceLastRecv)
			}
		case <-stopch:
			return
		}
	}
}

func (self *Connection) Transmit(cmd Command) error { return self.adapter.transmit(cmd) }

// SetActiveSource wakes the TV and asks it to show this device.
func (self *Connection) SetActiveSource() error {
	if err := self.Transmit(NewCommand(self.address, AddrTV, OpImageViewOn)); err != nil {
		self.Log.Warningf("cec image view on: %v", err)
	}
	pa := self.config.PhysicalAddress.Bytes()
	err := self.Transmit(NewCommand(self.address, AddrBroadcast, OpActiveSource, pa[0], pa[1]))
	return errors.Annotate(err, "failed to set active source")
}

func (self *Connection) Address() LogicalAddress { return self.address }

func (self *Connection) Stats() Stats {
	return Stats{
		Address:         self.address,
		Firmware:        self.firmware,
		SinceLastRecv:   self.adapter.sinceLastRecv(),
		DroppedGarbage:  self.adapter.droppedCount(),
		PhysicalAddress: self.config.PhysicalAddress,
	}
}

// Done is closed when connection stops, by Close or by fatal read error.
func (self *Connection) Done() <-chan struct{} { return self.alive.StopChan() }

// Err reports why the connection stopped on its own, nil after Close.
func (self *Connection) Err() error { return self.adapter.err() }

func (self *Connection) Close() error {
	var err error
	self.closeOnce.Do(func() {
		self.alive.Stop()
		self.alive.Wait()
		err = self.uart.Close()
	})
	return err
}
