// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gnss_tracker/internal/config"
)

// Topics are the MQTT topics carrying panel data.
type Topics struct {
	Env   string
	Power string
	Gas   string
	GPS   string
}

func topicsFrom(cfg *config.Config) Topics {
	return Topics{Env: cfg.TopicEnv, Power: cfg.TopicPower, Gas: cfg.TopicGas, GPS: cfg.TopicGPS}
}

func connectMQTT(broker, clientID string, logger *log.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect to %s: %w", broker, token.Error())
	}
	logger.Printf("connected to MQTT broker at %s", broker)
	return client, nil
}

// publishJSON marshals v and publishes it retained, so a panel that starts
// later sees the last value at once.
func publishJSON(client mqtt.Client, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	token := client.Publish(topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}
