package utils_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eosyam/scrum-game/utils"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults apply when nothing is set", func(t *testing.T) {
		// t.Setenv registers the restore; unset so envDefault kicks in.
		for _, key := range []string{"ALLOWED_ORIGINS", "WEB3FORMS_KEY", "AWAY_GRACE_PERIOD"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		cfg, err := utils.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		assert.Empty(t, cfg.Web3FormsKey)
		assert.Equal(t, 5*time.Minute, cfg.AwayGracePeriod)
	})

	t.Run("reads values from the environment", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGINS", "example.com,*.example.com")
		t.Setenv("WEB3FORMS_KEY", "key-123")
		t.Setenv("AWAY_GRACE_PERIOD", "30s")

		cfg, err := utils.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"example.com", "*.example.com"}, cfg.AllowedOrigins)
		assert.Equal(t, "key-123", cfg.Web3FormsKey)
		assert.Equal(t, 30*time.Second, cfg.AwayGracePeriod)
	})

	t.Run("rejects an unparseable grace period", func(t *testing.T) {
		t.Setenv("AWAY_GRACE_PERIOD", "soon")

		_, err := utils.LoadConfig()
		assert.Error(t, err)
	})

	t.Run("rejects a grace period under a second", func(t *testing.T) {
		t.Setenv("AWAY_GRACE_PERIOD", "10ms")

		_, err := utils.LoadConfig()
		assert.Error(t, err)
	})
}
