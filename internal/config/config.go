package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/darkwater/cecctl/hardware/cec"
	"github.com/darkwater/cecctl/helpers"
	"github.com/darkwater/cecctl/log2"
)

const FileName = "cecctl.toml"

const DefaultHdmiPort = 1

var reBindName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Config is loaded once at start and never changed after.
type Config struct {
	DisplayName string `toml:"display_name" hcl:"display_name"`
	Port        string `toml:"port" hcl:"port"`
	// TV input number this host is plugged into, gives physical address N.0.0.0
	HdmiPort int `toml:"hdmi_port,omitempty" hcl:"hdmi_port"`
	// a.b.c.d, overrides HdmiPort for hosts behind a receiver or switch
	PhysicalAddress string            `toml:"physical_address,omitempty" hcl:"physical_address"`
	Binds           map[string]string `toml:"binds" hcl:"binds"`
}

// DefaultPath is cecctl.toml in the per-user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Annotate(err, "unknown config dir for this platform")
	}
	return filepath.Join(dir, FileName), nil
}

// Read loads, decodes and validates config at path.
func Read(log *log2.Log, fs FullReader, path string) (*Config, error) {
	norm := fs.Normalize(path)
	log.Debugf("config reading path=%s", norm)
	b, err := fs.ReadAll(norm)
	if err != nil {
		return nil, errors.Annotatef(err, "config path=%s", norm)
	}
	if b == nil {
		return nil, errors.NotFoundf("config path=%s", norm)
	}
	c, err := Decode(norm, b)
	if err != nil {
		return nil, errors.Annotatef(err, "config path=%s", norm)
	}
	if err = c.Validate(); err != nil {
		return nil, errors.Annotatef(err, "config path=%s", norm)
	}
	for _, name := range c.UnknownBinds() {
		log.Warningf("config bind=%s is not a known key name and will never fire (see `cecctl keys`)", name)
	}
	return c, nil
}

// Decode picks format by file extension: .hcl or TOML for anything else.
func Decode(path string, b []byte) (*Config, error) {
	c := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		if err := hcl.Unmarshal(b, c); err != nil {
			return nil, errors.Annotate(err, "hcl")
		}
	default:
		if err := toml.Unmarshal(b, c); err != nil {
			return nil, errors.Annotate(err, "toml")
		}
	}
	if c.Binds == nil {
		c.Binds = make(map[string]string)
	}
	if c.HdmiPort == 0 && c.PhysicalAddress == "" {
		c.HdmiPort = DefaultHdmiPort
	}
	return c, nil
}

func (self *Config) Validate() error {
	errs := make([]error, 0, 4)
	if strings.TrimSpace(self.DisplayName) == "" {
		errs = append(errs, errors.NotValidf("display_name empty"))
	}
	if strings.TrimSpace(self.Port) == "" {
		errs = append(errs, errors.NotValidf("port empty"))
	}
	if _, err := self.Physical(); err != nil {
		errs = append(errs, err)
	}
	for _, name := range self.bindNames() {
		if !reBindName.MatchString(name) {
			errs = append(errs, errors.NotValidf("bind name=%q (expected snake_case like volume_up)", name))
		}
		if strings.TrimSpace(self.Binds[name]) == "" {
			errs = append(errs, errors.NotValidf("bind=%s command empty", name))
		}
	}
	return helpers.FoldErrors(errs)
}

// Physical is the CEC physical address to advertise.
func (self *Config) Physical() (cec.PhysicalAddress, error) {
	if self.PhysicalAddress != "" {
		return cec.ParsePhysicalAddress(self.PhysicalAddress)
	}
	port := self.HdmiPort
	if port == 0 {
		port = DefaultHdmiPort
	}
	return cec.PhysicalAddressFromPort(port)
}

// UnknownBinds lists bind names no remote key derives to, sorted.
func (self *Config) UnknownBinds() []string {
	var unknown []string
	for _, name := range self.bindNames() {
		if !cec.IsKnownKey(name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

func (self *Config) bindNames() []string {
	names := make([]string, 0, len(self.Binds))
	for name := range self.Binds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (self *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(self); err != nil {
		return nil, errors.Annotate(err, "config marshal")
	}
	return buf.Bytes(), nil
}

const Example = `display_name = "HTPC"
port = "/dev/ttyACM0"

[binds]
up = "wtype -k up"
down = "wtype -k down"
left = "wtype -k left"
right = "wtype -k right"
select = "wtype -k return"
exit = "wtype -k escape"
`

// WriteBanner tells user where config is expected and how it looks.
func WriteBanner(w io.Writer, path string) {
	fmt.Fprintf(w, "No valid config file found.\nConfig path: %s\nExample config:\n----------\n%s----------\n\n", path, Example)
}
