package services_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eosyam/scrum-game/internal/models"
	"github.com/eosyam/scrum-game/internal/services"
)

func TestWeb3FormsNotifier(t *testing.T) {
	feedback := models.Feedback{
		Rating:    4,
		Email:     "ada@example.com",
		Message:   "Loved the pulse feature",
		Timestamp: "2026-08-28T10:00:00Z",
		Room:      "sprint",
	}

	t.Run("posts the formatted notification", func(t *testing.T) {
		var received map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		}))
		defer srv.Close()

		n := services.NewWeb3FormsNotifier("test-key", srv.URL)
		require.NoError(t, n.Send(feedback))

		assert.Equal(t, "test-key", received["access_key"])
		assert.Equal(t, "Scrum Poker Feedback - 4 stars", received["subject"])
		assert.Equal(t, "ada@example.com", received["email"])
		message, _ := received["message"].(string)
		assert.Contains(t, message, "⭐⭐⭐⭐ Rating: 4 / 5 stars")
		assert.Contains(t, message, "Room: sprint")
		assert.Contains(t, message, "Loved the pulse feature")
	})

	t.Run("api failure surfaces as an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "invalid access key"})
		}))
		defer srv.Close()

		n := services.NewWeb3FormsNotifier("bad-key", srv.URL)
		err := n.Send(feedback)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid access key")
	})

	t.Run("non-json response surfaces as an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer srv.Close()

		n := services.NewWeb3FormsNotifier("test-key", srv.URL)
		assert.Error(t, n.Send(feedback))
	})

	t.Run("unreachable endpoint surfaces as an error", func(t *testing.T) {
		n := services.NewWeb3FormsNotifier("test-key", "http://127.0.0.1:1")
		assert.Error(t, n.Send(feedback))
	})
}
