package ws

import "time"

// Config holds websocket connection settings
type Config struct {
	WriteWait      time.Duration // deadline for a single frame write
	PongWait       time.Duration // read deadline, extended by each pong
	PingPeriod     time.Duration // must be less than PongWait
	MaxMessageSize int64
	IntentRate     float64 // intents per second
	IntentBurst    int
}

// DefaultConfig returns the default websocket configuration
func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     30 * time.Second,
		MaxMessageSize: 4096,
		IntentRate:     5,
		IntentBurst:    10,
	}
}
