package cec

import "fmt"

type LogicalAddress uint8

const (
	AddrTV LogicalAddress = iota
	AddrRecording1
	AddrRecording2
	AddrTuner1
	AddrPlayback1
	AddrAudioSystem
	AddrTuner2
	AddrTuner3
	AddrPlayback2
	AddrRecording3
	AddrTuner4
	AddrPlayback3
	AddrReserved1
	AddrReserved2
	AddrFreeUse
	AddrBroadcast

	// Same wire value as broadcast, used as initiator when no address could be claimed.
	AddrUnregistered = AddrBroadcast
)

var logicalAddressNames = [16]string{
	"TV", "Recording1", "Recording2", "Tuner1",
	"Playback1", "AudioSystem", "Tuner2", "Tuner3",
	"Playback2", "Recording3", "Tuner4", "Playback3",
	"Reserved1", "Reserved2", "FreeUse", "Broadcast",
}

func (a LogicalAddress) String() string {
	if int(a) < len(logicalAddressNames) {
		return logicalAddressNames[a]
	}
	return fmt.Sprintf("LogicalAddress(%d)", uint8(a))
}

type DeviceType uint8

const (
	DeviceTV DeviceType = iota
	DeviceRecording
	DeviceReserved
	DeviceTuner
	DevicePlayback
	DeviceAudioSystem
)

func (d DeviceType) String() string {
	switch d {
	case DeviceTV:
		return "TV"
	case DeviceRecording:
		return "RecordingDevice"
	case DeviceReserved:
		return "Reserved"
	case DeviceTuner:
		return "Tuner"
	case DevicePlayback:
		return "PlaybackDevice"
	case DeviceAudioSystem:
		return "AudioSystem"
	}
	return fmt.Sprintf("DeviceType(%d)", uint8(d))
}

// Addresses returns logical addresses a device of this type may claim, in preference order.
func (d DeviceType) Addresses() []LogicalAddress {
	switch d {
	case DeviceTV:
		return []LogicalAddress{AddrTV}
	case DeviceRecording:
		return []LogicalAddress{AddrRecording1, AddrRecording2, AddrRecording3}
	case DeviceTuner:
		return []LogicalAddress{AddrTuner1, AddrTuner2, AddrTuner3, AddrTuner4}
	case DevicePlayback:
		return []LogicalAddress{AddrPlayback1, AddrPlayback2, AddrPlayback3}
	case DeviceAudioSystem:
		return []LogicalAddress{AddrAudioSystem}
	}
	return nil
}

type Opcode uint8

const (
	OpFeatureAbort                 Opcode = 0x00
	OpImageViewOn                  Opcode = 0x04
	OpTunerStepIncrement           Opcode = 0x05
	OpTunerStepDecrement           Opcode = 0x06
	OpTunerDeviceStatus            Opcode = 0x07
	OpGiveTunerDeviceStatus        Opcode = 0x08
	OpRecordOn                     Opcode = 0x09
	OpRecordStatus                 Opcode = 0x0a
	OpRecordOff                    Opcode = 0x0b
	OpTextViewOn                   Opcode = 0x0d
	OpRecordTvScreen               Opcode = 0x0f
	OpGiveDeckStatus               Opcode = 0x1a
	OpDeckStatus                   Opcode = 0x1b
	OpSetMenuLanguage              Opcode = 0x32
	OpClearAnalogueTimer           Opcode = 0x33
	OpSetAnalogueTimer             Opcode = 0x34
	OpTimerStatus                  Opcode = 0x35
	OpStandby                      Opcode = 0x36
	OpPlay                         Opcode = 0x41
	OpDeckControl                  Opcode = 0x42
	OpTimerClearedStatus           Opcode = 0x43
	OpUserControlPressed           Opcode = 0x44
	OpUserControlRelease           Opcode = 0x45
	OpGiveOsdName                  Opcode = 0x46
	OpSetOsdName                   Opcode = 0x47
	OpSetOsdString                 Opcode = 0x64
	OpSetTimerProgramTitle         Opcode = 0x67
	OpSystemAudioModeRequest       Opcode = 0x70
	OpGiveAudioStatus              Opcode = 0x71
	OpSetSystemAudioMode           Opcode = 0x72
	OpReportAudioStatus            Opcode = 0x7a
	OpGiveSystemAudioModeStatus    Opcode = 0x7d
	OpSystemAudioModeStatus        Opcode = 0x7e
	OpRoutingChange                Opcode = 0x80
	OpRoutingInformation           Opcode = 0x81
	OpActiveSource                 Opcode = 0x82
	OpGivePhysicalAddress          Opcode = 0x83
	OpReportPhysicalAddress        Opcode = 0x84
	OpRequestActiveSource          Opcode = 0x85
	OpSetStreamPath                Opcode = 0x86
	OpDeviceVendorId               Opcode = 0x87
	OpVendorCommand                Opcode = 0x89
	OpVendorRemoteButtonDown       Opcode = 0x8a
	OpVendorRemoteButtonUp         Opcode = 0x8b
	OpGiveDeviceVendorId           Opcode = 0x8c
	OpMenuRequest                  Opcode = 0x8d
	OpMenuStatus                   Opcode = 0x8e
	OpGiveDevicePowerStatus        Opcode = 0x8f
	OpReportPowerStatus            Opcode = 0x90
	OpGetMenuLanguage              Opcode = 0x91
	OpSelectAnalogueService        Opcode = 0x92
	OpSelectDigitalService         Opcode = 0x93
	OpSetDigitalTimer              Opcode = 0x97
	OpClearDigitalTimer            Opcode = 0x99
	OpSetAudioRate                 Opcode = 0x9a
	OpInactiveSource               Opcode = 0x9d
	OpCecVersion                   Opcode = 0x9e
	OpGetCecVersion                Opcode = 0x9f
	OpVendorCommandWithId          Opcode = 0xa0
	OpClearExternalTimer           Opcode = 0xa1
	OpSetExternalTimer             Opcode = 0xa2
	OpReportShortAudioDescriptors  Opcode = 0xa3
	OpRequestShortAudioDescriptors Opcode = 0xa4
	OpStartArc                     Opcode = 0xc0
	OpReportArcStarted             Opcode = 0xc1
	OpReportArcEnded               Opcode = 0xc2
	OpRequestArcStart              Opcode = 0xc3
	OpRequestArcEnd                Opcode = 0xc4
	OpEndArc                       Opcode = 0xc5
	OpCdc                          Opcode = 0xf8
	// Frame carried no opcode, e.g. a logical address poll.
	OpNone  Opcode = 0xfd
	OpAbort Opcode = 0xff
)

var opcodeNames = map[Opcode]string{
	OpFeatureAbort:                 "FeatureAbort",
	OpImageViewOn:                  "ImageViewOn",
	OpTunerStepIncrement:           "TunerStepIncrement",
	OpTunerStepDecrement:           "TunerStepDecrement",
	OpTunerDeviceStatus:            "TunerDeviceStatus",
	OpGiveTunerDeviceStatus:        "GiveTunerDeviceStatus",
	OpRecordOn:                     "RecordOn",
	OpRecordStatus:                 "RecordStatus",
	OpRecordOff:                    "RecordOff",
	OpTextViewOn:                   "TextViewOn",
	OpRecordTvScreen:               "RecordTvScreen",
	OpGiveDeckStatus:               "GiveDeckStatus",
	OpDeckStatus:                   "DeckStatus",
	OpSetMenuLanguage:              "SetMenuLanguage",
	OpClearAnalogueTimer:           "ClearAnalogueTimer",
	OpSetAnalogueTimer:             "SetAnalogueTimer",
	OpTimerStatus:                  "TimerStatus",
	OpStandby:                      "Standby",
	OpPlay:                         "Play",
	OpDeckControl:                  "DeckControl",
	OpTimerClearedStatus:           "TimerClearedStatus",
	OpUserControlPressed:           "UserControlPressed",
	OpUserControlRelease:           "UserControlRelease",
	OpGiveOsdName:                  "GiveOsdName",
	OpSetOsdName:                   "SetOsdName",
	OpSetOsdString:                 "SetOsdString",
	OpSetTimerProgramTitle:         "SetTimerProgramTitle",
	OpSystemAudioModeRequest:       "SystemAudioModeRequest",
	OpGiveAudioStatus:              "GiveAudioStatus",
	OpSetSystemAudioMode:           "SetSystemAudioMode",
	OpReportAudioStatus:            "ReportAudioStatus",
	OpGiveSystemAudioModeStatus:    "GiveSystemAudioModeStatus",
	OpSystemAudioModeStatus:        "SystemAudioModeStatus",
	OpRoutingChange:                "RoutingChange",
	OpRoutingInformation:           "RoutingInformation",
	OpActiveSource:                 "ActiveSource",
	OpGivePhysicalAddress:          "GivePhysicalAddress",
	OpReportPhysicalAddress:        "ReportPhysicalAddress",
	OpRequestActiveSource:          "RequestActiveSource",
	OpSetStreamPath:                "SetStreamPath",
	OpDeviceVendorId:               "DeviceVendorId",
	OpVendorCommand:                "VendorCommand",
	OpVendorRemoteButtonDown:       "VendorRemoteButtonDown",
	OpVendorRemoteButtonUp:         "VendorRemoteButtonUp",
	OpGiveDeviceVendorId:           "GiveDeviceVendorId",
	OpMenuRequest:                  "MenuRequest",
	OpMenuStatus:                   "MenuStatus",
	OpGiveDevicePowerStatus:        "GiveDevicePowerStatus",
	OpReportPowerStatus:            "ReportPowerStatus",
	OpGetMenuLanguage:              "GetMenuLanguage",
	OpSelectAnalogueService:        "SelectAnalogueService",
	OpSelectDigitalService:         "SelectDigitalService",
	OpSetDigitalTimer:              "SetDigitalTimer",
	OpClearDigitalTimer:            "ClearDigitalTimer",
	OpSetAudioRate:                 "SetAudioRate",
	OpInactiveSource:               "InactiveSource",
	OpCecVersion:                   "CecVersion",
	OpGetCecVersion:                "GetCecVersion",
	OpVendorCommandWithId:          "VendorCommandWithId",
	OpClearExternalTimer:           "ClearExternalTimer",
	OpSetExternalTimer:             "SetExternalTimer",
	OpReportShortAudioDescriptors:  "ReportShortAudioDescriptors",
	OpRequestShortAudioDescriptors: "RequestShortAudioDescriptors",
	OpStartArc:                     "StartArc",
	OpReportArcStarted:             "ReportArcStarted",
	OpReportArcEnded:               "ReportArcEnded",
	OpRequestArcStart:              "RequestArcStart",
	OpRequestArcEnd:                "RequestArcEnd",
	OpEndArc:                       "EndArc",
	OpCdc:                          "Cdc",
	OpNone:                         "None",
	OpAbort:                        "Abort",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%02x)", uint8(o))
}

// CEC version byte for 1.4, reported in CecVersion replies.
const Version14 byte = 0x05

const (
	PowerStatusOn      byte = 0x00
	PowerStatusStandby byte = 0x01
)

// FeatureAbort reasons.
const (
	AbortUnrecognizedOpcode byte = 0x00
	AbortNotInCorrectMode   byte = 0x01
	AbortRefused            byte = 0x04
)
