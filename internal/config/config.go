// Package config holds the runtime settings: built-in defaults, an optional
// YAML file, and command-line flags that override both.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/whack-a-mole/internal/gpio"
)

// Display kinds.
const (
	DisplayTerminal = "terminal"
	DisplaySerial   = "serial"
)

// Config is the full runtime configuration.
type Config struct {
	GPIO      GPIO          `yaml:"gpio"`
	Display   Display       `yaml:"display"`
	StorePath string        `yaml:"store_path"`
	Broker    string        `yaml:"broker"`
	HTTPAddr  string        `yaml:"http_addr"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// GPIO selects the button lines.
type GPIO struct {
	Chip string `yaml:"chip"`
	Pins []int  `yaml:"pins"`
}

// Display selects the LCD output.
type Display struct {
	Kind   string `yaml:"kind"`
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GPIO: GPIO{
			Chip: gpio.DefaultChip,
			Pins: append([]int(nil), gpio.DefaultPins[:]...),
		},
		Display: Display{
			Kind:   DisplayTerminal,
			Device: "/dev/ttyUSB0",
			Baud:   9600,
		},
		StorePath: "/var/lib/whack-a-mole/eeprom.bin",
		Broker:    "tcp://192.168.1.200:1883",
		HTTPAddr:  ":80",
		Heartbeat: 15 * time.Minute,
	}
}

// Load returns Default overlaid with the YAML file at path.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	var errs []string

	if c.GPIO.Chip == "" {
		errs = append(errs, "gpio chip is empty")
	}
	if len(c.GPIO.Pins) != gpio.NumButtons {
		errs = append(errs, fmt.Sprintf("need %d gpio pins, got %d", gpio.NumButtons, len(c.GPIO.Pins)))
	}
	seen := map[int]bool{}
	for _, p := range c.GPIO.Pins {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("gpio pin %d is negative", p))
		}
		if seen[p] {
			errs = append(errs, fmt.Sprintf("gpio pin %d listed twice", p))
		}
		seen[p] = true
	}

	switch c.Display.Kind {
	case DisplayTerminal:
	case DisplaySerial:
		if c.Display.Device == "" {
			errs = append(errs, "serial display needs a device")
		}
		if c.Display.Baud <= 0 {
			errs = append(errs, fmt.Sprintf("serial baud %d must be positive", c.Display.Baud))
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown display kind %q", c.Display.Kind))
	}

	if c.StorePath == "" {
		errs = append(errs, "store path is empty")
	}
	if c.Heartbeat < 0 {
		errs = append(errs, "heartbeat must not be negative")
	}

	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}

// Pins returns the pin offsets as a fixed array. Call after Validate.
func (c Config) Pins() [gpio.NumButtons]int {
	var pins [gpio.NumButtons]int
	copy(pins[:], c.GPIO.Pins)
	return pins
}

// Flags are the command-line overrides. Only flags set explicitly on the
// command line are applied.
type Flags struct {
	fs *flag.FlagSet

	chip      *string
	pins      *string
	display   *string
	device    *string
	baud      *int
	store     *string
	broker    *string
	httpAddr  *string
	heartbeat *time.Duration
}

// RegisterFlags defines the override flags on fs, documenting the defaults.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	return &Flags{
		fs:        fs,
		chip:      fs.String("chip", d.GPIO.Chip, "GPIO character device"),
		pins:      fs.String("pins", formatPins(d.GPIO.Pins), "Comma-separated line offsets for buttons 1-4"),
		display:   fs.String("display", d.Display.Kind, `Display kind ("terminal" or "serial")`),
		device:    fs.String("serial-device", d.Display.Device, "Serial LCD device"),
		baud:      fs.Int("serial-baud", d.Display.Baud, "Serial LCD baud rate"),
		store:     fs.String("store", d.StorePath, "Persistent settings image"),
		broker:    fs.String("broker", d.Broker, "MQTT broker address"),
		httpAddr:  fs.String("http", d.HTTPAddr, "HTTP status address (empty to disable)"),
		heartbeat: fs.Duration("heartbeat", d.Heartbeat, "Heartbeat interval (0 to disable)"),
	}
}

// Apply copies explicitly set flags into cfg.
func (f *Flags) Apply(cfg *Config) error {
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "chip":
			cfg.GPIO.Chip = *f.chip
		case "pins":
			pins, perr := parsePins(*f.pins)
			if perr != nil {
				err = perr
				return
			}
			cfg.GPIO.Pins = pins
		case "display":
			cfg.Display.Kind = *f.display
		case "serial-device":
			cfg.Display.Device = *f.device
		case "serial-baud":
			cfg.Display.Baud = *f.baud
		case "store":
			cfg.StorePath = *f.store
		case "broker":
			cfg.Broker = *f.broker
		case "http":
			cfg.HTTPAddr = *f.httpAddr
		case "heartbeat":
			cfg.Heartbeat = *f.heartbeat
		}
	})
	return err
}

func parsePins(s string) ([]int, error) {
	var pins []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		p, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parse pins %q: %w", s, err)
		}
		pins = append(pins, p)
	}
	return pins, nil
}

func formatPins(pins []int) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
