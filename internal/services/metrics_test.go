package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	t.Run("counters accumulate into the snapshot", func(t *testing.T) {
		m := NewMetrics()
		m.IncrementConnections()
		m.IncrementConnections()
		m.IncrementMessagesReceived()
		m.IncrementMessagesSent()
		m.IncrementConnectionErrors()
		m.IncrementBroadcastErrors()
		m.IncrementRateLimitViolations()

		snap := m.Snapshot(5, 2)

		assert.Equal(t, int64(5), snap.ActiveConnections)
		assert.Equal(t, int64(2), snap.ActiveRooms)
		assert.Equal(t, int64(2), snap.TotalConnections)
		assert.Equal(t, int64(1), snap.MessagesReceived)
		assert.Equal(t, int64(1), snap.MessagesSent)
		assert.Equal(t, int64(1), snap.ConnectionErrors)
		assert.Equal(t, int64(1), snap.BroadcastErrors)
		assert.Equal(t, int64(1), snap.RateLimitViolations)
		assert.NotEqual(t, "never", snap.LastMessageTime)
	})

	t.Run("last message time defaults to never", func(t *testing.T) {
		snap := NewMetrics().Snapshot(0, 0)
		assert.Equal(t, "never", snap.LastMessageTime)
	})
}

func TestHealthStatus(t *testing.T) {
	t.Run("thresholds", func(t *testing.T) {
		assert.Equal(t, "healthy", healthStatus(0, 0))
		assert.Equal(t, "healthy", healthStatus(8000, 800))
		assert.Equal(t, "warning", healthStatus(8001, 0))
		assert.Equal(t, "warning", healthStatus(0, 801))
		assert.Equal(t, "critical", healthStatus(9001, 0))
		assert.Equal(t, "critical", healthStatus(0, 901))
	})
}
