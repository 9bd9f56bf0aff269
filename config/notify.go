package config

import "fmt"

// NotifyConfig selects the delivery channels for outage notifications.
// The terminal channel is on unless explicitly disabled; every other
// channel activates once its credentials are present.
type NotifyConfig struct {
	DisableTerminal bool           `json:"disable_terminal"`
	LogFile         string         `json:"log_file"`
	Telegram        TelegramConfig `json:"telegram"`
	Pushover        PushoverConfig `json:"pushover"`
	MQTT            MQTTConfig     `json:"mqtt"`
}

// TelegramConfig holds bot credentials for Telegram delivery.
type TelegramConfig struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

// Enabled reports whether Telegram delivery is configured.
func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}

// PushoverConfig holds application credentials for Pushover delivery.
type PushoverConfig struct {
	Token   string `json:"token"`
	UserKey string `json:"user_key"`
}

// Enabled reports whether Pushover delivery is configured.
func (c PushoverConfig) Enabled() bool {
	return c.Token != "" && c.UserKey != ""
}

// MQTTConfig defines the connection parameters for the Paho MQTT publisher.
type MQTTConfig struct {
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	Retain     bool   `json:"retain"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`
}

// Enabled reports whether MQTT delivery is configured.
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// SetDefaults fills optional fields with their defaults. The notification
// log defaults on; point it at /dev/null to drop it.
func (c *NotifyConfig) SetDefaults() {
	if c.LogFile == "" {
		c.LogFile = "/tmp/outage_notifications.log"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "blackout/alerts"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "blackout-tracker"
	}
}

// Validate checks the channel settings for inconsistencies.
func (c *NotifyConfig) Validate() error {
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("notify: telegram token set without chat_id")
	}
	if c.Telegram.ChatID != 0 && c.Telegram.Token == "" {
		return fmt.Errorf("notify: telegram chat_id set without token")
	}
	if (c.Pushover.Token == "") != (c.Pushover.UserKey == "") {
		return fmt.Errorf("notify: pushover requires both token and user_key")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("notify: mqtt qos must be 0, 1 or 2")
	}
	if c.MQTT.UseTLS && (c.MQTT.ClientCert == "" || c.MQTT.ClientKey == "" || c.MQTT.CABundle == "") {
		return fmt.Errorf("notify: mqtt tls requires client_cert, client_key and ca_bundle")
	}
	return nil
}
