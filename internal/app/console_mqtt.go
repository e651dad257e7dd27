package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gnss_tracker/internal/config"
	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

// RunConsoleMQTT prints every message on the panel topics.
func RunConsoleMQTT() error {
	cfg := config.Get()
	logger := log.New(os.Stderr, "console: ", log.LstdFlags)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole, logger)
	if err != nil {
		return err
	}

	subs := []struct {
		topic string
		handle func([]byte) error
	}{
		{cfg.TopicEnv, decodeInto(func(s env.Sample) { fmt.Println(formatSample(s)) })},
		{cfg.TopicPower, decodeInto(func(p env.Power) { fmt.Println(formatPower(p)) })},
		{cfg.TopicGas, decodeInto(func(g env.GasSample) { fmt.Printf("[GAS ]  co2=%.1fppm\n", g.CO2) })},
		{cfg.TopicGPS, decodeInto(func(r gps.Report) { fmt.Println(formatReport(r)) })},
	}
	for _, s := range subs {
		topic, handle := s.topic, s.handle
		token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			if err := handle(msg.Payload()); err != nil {
				logger.Printf("%s unmarshal error: %v", topic, err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		logger.Printf("subscribed to %s", topic)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Println("shutting down")
	client.Disconnect(250)
	return nil
}

func formatSample(s env.Sample) string {
	hum := "n/a"
	if s.Humidity != nil {
		hum = fmt.Sprintf("%.1f%%", *s.Humidity)
	}
	return fmt.Sprintf("[ENV ]  src=%s temp=%.2f°C pressure=%.0fPa (%.3fatm) humidity=%s",
		s.Source, s.Temperature, s.Pressure, s.Pressure/env.PascalsPerAtm, hum)
}

func formatPower(p env.Power) string {
	return fmt.Sprintf("[PWR ]  battery=%s solar=%s", volts(p.Battery), volts(p.Solar))
}

func volts(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2fV", *v)
}

func formatReport(r gps.Report) string {
	pos := "no position"
	if r.Latitude != nil && r.Longitude != nil {
		pos = fmt.Sprintf("lat=%.6f lon=%.6f", *r.Latitude, *r.Longitude)
	}
	return fmt.Sprintf("[GPS ]  time=%s %s speed=%.1fkn course=%.1f° sats=%d validity=%s",
		r.Time, pos, r.SpeedKnots, r.CourseDeg, r.Satellites, r.Validity)
}
