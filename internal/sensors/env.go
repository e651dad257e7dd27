package sensors

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"

	"github.com/relabs-tech/gnss_tracker/internal/env"
)

// EnvSensor reads a BME280 or BMP280 on the I2C bus. Only the BME280 has
// a humidity channel.
type EnvSensor struct {
	dev      *bmxx80.Dev
	name     string
	humidity bool
}

// NewEnvSensor probes the sensor at addr (0x76 or 0x77).
func NewEnvSensor(bus i2c.Bus, addr uint16) (*EnvSensor, error) {
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("bmxx80 init at 0x%02X: %w", addr, err)
	}
	s := &EnvSensor{dev: dev, name: "bmp280"}
	if strings.HasPrefix(dev.String(), "BME280") {
		s.name = "bme280"
		s.humidity = true
	}
	return s, nil
}

// Name returns "bme280" or "bmp280".
func (s *EnvSensor) Name() string {
	return s.name
}

// Read takes one forced measurement.
func (s *EnvSensor) Read() (env.Sample, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return env.Sample{}, fmt.Errorf("%s sense: %w", s.name, err)
	}
	return sampleFromEnv(s.name, e, s.humidity), nil
}

func (s *EnvSensor) Halt() error {
	return s.dev.Halt()
}

func sampleFromEnv(source string, e physic.Env, humidity bool) env.Sample {
	out := env.Sample{
		Source:      source,
		Temperature: e.Temperature.Celsius(),
		Pressure:    float64(e.Pressure) / float64(physic.Pascal),
	}
	if humidity {
		rh := float64(e.Humidity) / float64(physic.PercentRH)
		out.Humidity = &rh
	}
	return out
}
