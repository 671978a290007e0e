package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eosyam/scrum-game/internal/models"
	"github.com/eosyam/scrum-game/internal/security"
)

func TestIsValidMessageType(t *testing.T) {
	t.Run("accepts every inbound event type", func(t *testing.T) {
		for _, msgType := range []string{
			models.MsgTypeJoinRoom,
			models.MsgTypeVote,
			models.MsgTypeShowVotes,
			models.MsgTypeResetVotes,
			models.MsgTypeClearVotes,
			models.MsgTypeBreakRequest,
			models.MsgTypeQuestion,
			models.MsgTypeAutoAway,
			models.MsgTypeSendVibration,
			models.MsgTypePulseDetect,
		} {
			assert.True(t, security.IsValidMessageType(msgType), "expected %q to be valid", msgType)
		}
	})

	t.Run("rejects unknown and outbound-only types", func(t *testing.T) {
		assert.False(t, security.IsValidMessageType(""))
		assert.False(t, security.IsValidMessageType("connected"))
		assert.False(t, security.IsValidMessageType("updateUsers"))
		assert.False(t, security.IsValidMessageType("JOINROOM"))
		assert.False(t, security.IsValidMessageType("__proto__"))
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit then denies", func(t *testing.T) {
		rl := security.NewRateLimiter(3, time.Minute)

		assert.True(t, rl.Allow("conn-1"))
		assert.True(t, rl.Allow("conn-1"))
		assert.True(t, rl.Allow("conn-1"))
		assert.False(t, rl.Allow("conn-1"))
	})

	t.Run("tracks connections independently", func(t *testing.T) {
		rl := security.NewRateLimiter(1, time.Minute)

		assert.True(t, rl.Allow("conn-1"))
		assert.False(t, rl.Allow("conn-1"))
		assert.True(t, rl.Allow("conn-2"))
	})

	t.Run("resets after the window elapses", func(t *testing.T) {
		rl := security.NewRateLimiter(1, 10*time.Millisecond)

		assert.True(t, rl.Allow("conn-1"))
		assert.False(t, rl.Allow("conn-1"))

		time.Sleep(20 * time.Millisecond)
		assert.True(t, rl.Allow("conn-1"))
	})

	t.Run("remove clears state for the connection", func(t *testing.T) {
		rl := security.NewRateLimiter(1, time.Minute)

		assert.True(t, rl.Allow("conn-1"))
		assert.False(t, rl.Allow("conn-1"))

		rl.Remove("conn-1")
		assert.True(t, rl.Allow("conn-1"))
	})
}

func TestOriginValidator(t *testing.T) {
	t.Run("passes patterns through to accept options", func(t *testing.T) {
		ov := security.NewOriginValidator([]string{"example.com", "*.example.com"})

		opts := ov.GetAcceptOptions()
		assert.Equal(t, []string{"example.com", "*.example.com"}, opts.OriginPatterns)
	})
}
