package config

import "time"

// WebSocket connection limits and constraints
const (
	// Rate limiting
	MaxMessagesPerSecond = 10
	RateLimitWindow      = time.Second

	// Timeouts. Reads carry no deadline; peer liveness is probed by the
	// write pump's pings.
	WriteTimeout = 10 * time.Second
	PingInterval = 25 * time.Second

	// Channel buffers
	ClientSendBufferSize   = 256
	HubBroadcastBufferSize = 256
)
