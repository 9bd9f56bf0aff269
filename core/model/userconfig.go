package model

// UserConfig is everything persisted in the user's configuration record: the
// tracked address and the monitoring settings. Address stays nil until the
// user sets one.
type UserConfig struct {
	Address    *Address         `json:"address"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// DefaultUserConfig returns the state of a fresh installation.
func DefaultUserConfig() UserConfig {
	return UserConfig{Monitoring: DefaultMonitoringConfig()}
}
