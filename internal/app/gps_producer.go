package app

import (
	"log"
	"os"

	"github.com/relabs-tech/gnss_tracker/internal/config"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes one gps.Report per RMC sentence as JSON on TOPIC_GPS.
func RunGPSProducer() error {
	cfg := config.Get()
	logger := log.New(os.Stderr, "gps: ", log.LstdFlags)

	// ---- 1) Connect to MQTT broker ----
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDGPS, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	// ---- 2) Open GPS serial port ----
	port, err := gps.OpenSerial(cfg.GPSSerialPort, cfg.GPSBaudRate)
	if err != nil {
		return err
	}
	defer port.Close()
	logger.Printf("serial port opened on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)

	// ---- 3) Decode and publish until the port fails ----
	return gps.Scan(port, func(r gps.Report) error {
		if err := publishJSON(client, cfg.TopicGPS, r); err != nil {
			logger.Printf("%v", err)
			return nil
		}
		logger.Printf("published report: validity=%s sats=%d time=%s", r.Validity, r.Satellites, r.Time)
		return nil
	}, func(err error) {
		// noisy receivers emit partial sentences; keep going
		logger.Printf("NMEA parse error: %v", err)
	})
}
