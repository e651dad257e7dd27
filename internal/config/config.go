package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/gnss_tracker/internal/display"
	"github.com/relabs-tech/gnss_tracker/internal/env"
)

// Display drivers: where committed frames go.
const (
	DriverHeadless = "headless" // no panel, web mirror only
	DriverWindow   = "window"   // desktop window (ebiten)
	DriverSSD1306  = "ssd1306"  // I2C OLED (periph)
)

// Renderers: how text and shapes are rasterized.
const (
	RendererCanvas   = "canvas"   // golang.org/x/image fonts
	RendererTinyfont = "tinyfont" // TinyGo tinyfont on a drivers.Displayer
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDEnv      string
	MQTTClientIDGPS      string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string

	// Topics
	TopicEnv   string
	TopicPower string
	TopicGas   string
	TopicGPS   string

	// Environment sensor and power ADC
	EnvI2CAddr        uint16
	ADCI2CAddr        uint16
	ADCBatteryChannel int // -1 disables
	ADCSolarChannel   int // -1 disables
	ADCBatteryDivider float64
	ADCSolarDivider   float64
	EnvSampleInterval int // milliseconds

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Display
	DisplayDriver         string
	DisplayRenderer       string
	DisplayWidth          int // physical pixels
	DisplayHeight         int
	DisplayRotation       display.Rotation
	DisplayUpdateInterval int // milliseconds
	DisplayFields         []env.Quantity
	DisplayTitle          string
	DisplaySplash         string // resource name, empty: no splash
	ResourceDir           string
	LayoutFile            string // optional YAML layout profile

	// Web mirror, 0 disables
	WebServerPort int
}

// globalConfig is set once by InitGlobal and read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns a Config with every optional key set. MQTT_BROKER stays empty.
func Defaults() *Config {
	return &Config{
		MQTTClientIDProducer: "gnss-producer-mock",
		MQTTClientIDEnv:      "gnss-env-producer",
		MQTTClientIDGPS:      "gnss-gps-producer",
		MQTTClientIDConsole:  "gnss-console-subscriber",
		MQTTClientIDDisplay:  "gnss-display",

		TopicEnv:   "gnss/env",
		TopicPower: "gnss/power",
		TopicGas:   "gnss/gas",
		TopicGPS:   "gnss/gps",

		EnvI2CAddr:        0x76,
		ADCI2CAddr:        0x48,
		ADCBatteryChannel: 0,
		ADCSolarChannel:   1,
		ADCBatteryDivider: 1,
		ADCSolarDivider:   1,
		EnvSampleInterval: 1000,

		GPSBaudRate: 9600,

		DisplayDriver:         DriverHeadless,
		DisplayRenderer:       RendererCanvas,
		DisplayWidth:          240,
		DisplayHeight:         320,
		DisplayRotation:       display.Rotate90,
		DisplayUpdateInterval: 1000,
		DisplayFields:         env.Quantities(),
		DisplayTitle:          "GNSS TRACKER",
		ResourceDir:           "resources",
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads KEY=VALUE lines. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) (*Config, error) {
	cfg := Defaults()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_ENV":
		c.MQTTClientIDEnv = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ENV":
		c.TopicEnv = value
	case "TOPIC_POWER":
		c.TopicPower = value
	case "TOPIC_GAS":
		c.TopicGas = value
	case "TOPIC_GPS":
		c.TopicGPS = value

	// Sensors
	case "ENV_I2C_ADDR":
		c.EnvI2CAddr, err = parseAddr(key, value)
	case "ADC_I2C_ADDR":
		c.ADCI2CAddr, err = parseAddr(key, value)
	case "ADC_BATTERY_CHANNEL":
		c.ADCBatteryChannel, err = parseChannel(key, value)
	case "ADC_SOLAR_CHANNEL":
		c.ADCSolarChannel, err = parseChannel(key, value)
	case "ADC_BATTERY_DIVIDER":
		c.ADCBatteryDivider, err = parseDivider(key, value)
	case "ADC_SOLAR_DIVIDER":
		c.ADCSolarDivider, err = parseDivider(key, value)
	case "ENV_SAMPLE_INTERVAL":
		c.EnvSampleInterval, err = parseInterval(key, value)

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, perr)
		}
		c.GPSBaudRate = rate

	// Display
	case "DISPLAY_DRIVER":
		switch value {
		case DriverHeadless, DriverWindow, DriverSSD1306:
			c.DisplayDriver = value
		default:
			return fmt.Errorf("DISPLAY_DRIVER must be %s, %s or %s, got %q",
				DriverHeadless, DriverWindow, DriverSSD1306, value)
		}
	case "DISPLAY_RENDERER":
		switch value {
		case RendererCanvas, RendererTinyfont:
			c.DisplayRenderer = value
		default:
			return fmt.Errorf("DISPLAY_RENDERER must be %s or %s, got %q",
				RendererCanvas, RendererTinyfont, value)
		}
	case "DISPLAY_WIDTH":
		c.DisplayWidth, err = parsePixels(key, value)
	case "DISPLAY_HEIGHT":
		c.DisplayHeight, err = parsePixels(key, value)
	case "DISPLAY_ROTATION":
		deg, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid DISPLAY_ROTATION %q: %w", value, perr)
		}
		c.DisplayRotation, err = display.ParseRotation(deg)
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = parseInterval(key, value)
	case "DISPLAY_FIELDS":
		c.DisplayFields, err = ParseFields(value)
	case "DISPLAY_TITLE":
		c.DisplayTitle = value
	case "DISPLAY_SPLASH":
		c.DisplaySplash = value
	case "RESOURCE_DIR":
		c.ResourceDir = value
	case "LAYOUT_FILE":
		c.LayoutFile = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, perr)
		}
		if port < 0 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 0-65535, got %d", port)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// ParseFields reads a comma separated list of panel rows, e.g.
// "temperature,pressure,battery". Order is kept; duplicates are rejected.
func ParseFields(value string) ([]env.Quantity, error) {
	var qs []env.Quantity
	seen := map[env.Quantity]bool{}
	for _, name := range strings.Split(value, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		q, err := env.ParseQuantity(name)
		if err != nil {
			return nil, fmt.Errorf("DISPLAY_FIELDS: %w", err)
		}
		if seen[q] {
			return nil, fmt.Errorf("DISPLAY_FIELDS: %q listed twice", name)
		}
		seen[q] = true
		qs = append(qs, q)
	}
	return qs, nil
}

func parseAddr(key, value string) (uint16, error) {
	addr, err := strconv.ParseUint(value, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if addr > 0x7F {
		return 0, fmt.Errorf("%s must be a 7-bit address, got 0x%X", key, addr)
	}
	return uint16(addr), nil
}

func parseChannel(key, value string) (int, error) {
	ch, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if ch < -1 || ch > 3 {
		return 0, fmt.Errorf("%s must be 0-3 or -1 (disabled), got %d", key, ch)
	}
	return ch, nil
}

func parseDivider(key, value string) (float64, error) {
	d, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 1 {
		return 0, fmt.Errorf("%s must be >= 1, got %g", key, d)
	}
	return d, nil
}

func parseInterval(key, value string) (int, error) {
	ms, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("%s must be > 0 ms, got %d", key, ms)
	}
	return ms, nil
}

func parsePixels(key, value string) (int, error) {
	px, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if px <= 0 || px > 4096 {
		return 0, fmt.Errorf("%s must be 1-4096, got %d", key, px)
	}
	return px, nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be > 0")
	}
	if c.ADCBatteryChannel >= 0 && c.ADCBatteryChannel == c.ADCSolarChannel {
		return fmt.Errorf("ADC_BATTERY_CHANNEL and ADC_SOLAR_CHANNEL must differ, both are %d", c.ADCSolarChannel)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
