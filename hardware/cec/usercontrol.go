package cec

import (
	"fmt"
	"strings"
	"unicode"
)

// UserControlCode is the single parameter of UserControlPressed: which remote key.
type UserControlCode uint8

// Sentinel used by libcec for "no key"; never bindable.
const UserControlUnknown UserControlCode = 0xff

type userControl struct {
	Code UserControlCode
	Name string // CEC vocabulary enumerator name
	Key  string // canonical key name, config binds use it
}

// Frozen so binds stay valid whatever spelling a CEC library uses.
// Key must equal SnakeCase(Name), tests enforce it.
var userControlTable = []userControl{
	{0x00, "Select", "select"},
	{0x01, "Up", "up"},
	{0x02, "Down", "down"},
	{0x03, "Left", "left"},
	{0x04, "Right", "right"},
	{0x05, "RightUp", "right_up"},
	{0x06, "RightDown", "right_down"},
	{0x07, "LeftUp", "left_up"},
	{0x08, "LeftDown", "left_down"},
	{0x09, "RootMenu", "root_menu"},
	{0x0a, "SetupMenu", "setup_menu"},
	{0x0b, "ContentsMenu", "contents_menu"},
	{0x0c, "FavoriteMenu", "favorite_menu"},
	{0x0d, "Exit", "exit"},
	{0x10, "TopMenu", "top_menu"},
	{0x11, "DvdMenu", "dvd_menu"},
	{0x1d, "NumberEntryMode", "number_entry_mode"},
	{0x1e, "Number11", "number11"},
	{0x1f, "Number12", "number12"},
	{0x20, "Number0", "number0"},
	{0x21, "Number1", "number1"},
	{0x22, "Number2", "number2"},
	{0x23, "Number3", "number3"},
	{0x24, "Number4", "number4"},
	{0x25, "Number5", "number5"},
	{0x26, "Number6", "number6"},
	{0x27, "Number7", "number7"},
	{0x28, "Number8", "number8"},
	{0x29, "Number9", "number9"},
	{0x2a, "Dot", "dot"},
	{0x2b, "Enter", "enter"},
	{0x2c, "Clear", "clear"},
	{0x2f, "NextFavorite", "next_favorite"},
	{0x30, "ChannelUp", "channel_up"},
	{0x31, "ChannelDown", "channel_down"},
	{0x32, "PreviousChannel", "previous_channel"},
	{0x33, "SoundSelect", "sound_select"},
	{0x34, "InputSelect", "input_select"},
	{0x35, "DisplayInformation", "display_information"},
	{0x36, "Help", "help"},
	{0x37, "PageUp", "page_up"},
	{0x38, "PageDown", "page_down"},
	{0x40, "Power", "power"},
	{0x41, "VolumeUp", "volume_up"},
	{0x42, "VolumeDown", "volume_down"},
	{0x43, "Mute", "mute"},
	{0x44, "Play", "play"},
	{0x45, "Stop", "stop"},
	{0x46, "Pause", "pause"},
	{0x47, "Record", "record"},
	{0x48, "Rewind", "rewind"},
	{0x49, "FastForward", "fast_forward"},
	{0x4a, "Eject", "eject"},
	{0x4b, "Forward", "forward"},
	{0x4c, "Backward", "backward"},
	{0x4d, "StopRecord", "stop_record"},
	{0x4e, "PauseRecord", "pause_record"},
	{0x50, "Angle", "angle"},
	{0x51, "SubPicture", "sub_picture"},
	{0x52, "VideoOnDemand", "video_on_demand"},
	{0x53, "ElectronicProgramGuide", "electronic_program_guide"},
	{0x54, "TimerProgramming", "timer_programming"},
	{0x55, "InitialConfiguration", "initial_configuration"},
	{0x56, "SelectBroadcastType", "select_broadcast_type"},
	{0x57, "SelectSoundPresentation", "select_sound_presentation"},
	{0x60, "PlayFunction", "play_function"},
	{0x61, "PausePlayFunction", "pause_play_function"},
	{0x62, "RecordFunction", "record_function"},
	{0x63, "PauseRecordFunction", "pause_record_function"},
	{0x64, "StopFunction", "stop_function"},
	{0x65, "MuteFunction", "mute_function"},
	{0x66, "RestoreVolumeFunction", "restore_volume_function"},
	{0x67, "TuneFunction", "tune_function"},
	{0x68, "SelectMediaFunction", "select_media_function"},
	{0x69, "SelectAvInputFunction", "select_av_input_function"},
	{0x6a, "SelectAudioInputFunction", "select_audio_input_function"},
	{0x6b, "PowerToggleFunction", "power_toggle_function"},
	{0x6c, "PowerOffFunction", "power_off_function"},
	{0x6d, "PowerOnFunction", "power_on_function"},
	{0x71, "F1Blue", "f1_blue"},
	{0x72, "F2Red", "f2_red"},
	{0x73, "F3Green", "f3_green"},
	{0x74, "F4Yellow", "f4_yellow"},
	{0x75, "F5", "f5"},
	{0x76, "Data", "data"},
	{0x91, "AnReturn", "an_return"},
	{0x96, "AnChannelsList", "an_channels_list"},
}

var (
	userControlByCode [256]*userControl
	userControlByKey  = make(map[string]*userControl, len(userControlTable))
)

func init() {
	for i := range userControlTable {
		uc := &userControlTable[i]
		if userControlByCode[uc.Code] != nil {
			panic(fmt.Sprintf("code error duplicate user control code=%02x", uc.Code))
		}
		userControlByCode[uc.Code] = uc
		userControlByKey[uc.Key] = uc
	}
}

// LookupUserControl is the checked conversion from a raw parameter value.
func LookupUserControl(v uint32) (UserControlCode, bool) {
	if v > 0xff || userControlByCode[v] == nil {
		return UserControlUnknown, false
	}
	return UserControlCode(v), true
}

// KeyName derives the canonical key name of a raw user control code.
// Reserved and unnamed codes report false.
func KeyName(v uint32) (string, bool) {
	code, ok := LookupUserControl(v)
	if !ok {
		return "", false
	}
	return userControlByCode[code].Key, true
}

func (c UserControlCode) KeyName() (string, bool) { return KeyName(uint32(c)) }

func (c UserControlCode) String() string {
	if uc := userControlByCode[c]; uc != nil {
		return uc.Name
	}
	return fmt.Sprintf("UserControlCode(%02x)", uint8(c))
}

// IsKnownKey reports whether name is a canonical key name some code derives to.
func IsKnownKey(name string) bool {
	_, ok := userControlByKey[name]
	return ok
}

type KeyInfo struct {
	Code UserControlCode
	Key  string
}

// Keys lists all bindable keys ordered by code.
func Keys() []KeyInfo {
	ks := make([]KeyInfo, 0, len(userControlTable))
	for _, uc := range userControlTable {
		ks = append(ks, KeyInfo{Code: uc.Code, Key: uc.Key})
	}
	return ks
}

// SnakeCase converts an enumerator name to canonical key spelling.
// Only the segment after the last "::" counts. Word breaks go before an
// upper case letter that follows a lower case letter or digit, and before
// the last capital of an acronym ("DVDMenu" -> "dvd_menu"). Any other
// non-alphanumeric rune is a separator. Locale independent.
func SnakeCase(s string) string {
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	pending := false
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pending = true
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				pending = true
			}
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
