package params

import "time"

type ListenerConfig struct {
	Network string
	Address string
}

type WebDaemonConfig struct {
	ListenerConfig
	DataDir string

	// CacheLastKnownTTL bounds how long a courier's last fix is served
	// after they stop reporting.
	CacheLastKnownTTL time.Duration
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir:           DatadirRoot,
		ListenerConfig:    DefaultWebListenerConfig(),
		CacheLastKnownTTL: 7 * 24 * time.Hour,
	}
}
