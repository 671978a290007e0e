package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eosyam/scrum-game/internal/models"
)

const web3FormsEndpoint = "https://api.web3forms.com/submit"

// Web3FormsNotifier forwards stored feedback to Web3Forms as an email
// notification. Delivery is best-effort: callers fire it from a goroutine and
// only log failures.
type Web3FormsNotifier struct {
	accessKey string
	endpoint  string
	client    *http.Client
}

// NewWeb3FormsNotifier creates a notifier. An empty endpoint selects the
// Web3Forms API; tests point it at a local server.
func NewWeb3FormsNotifier(accessKey, endpoint string) *Web3FormsNotifier {
	if endpoint == "" {
		endpoint = web3FormsEndpoint
	}
	return &Web3FormsNotifier{
		accessKey: accessKey,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type web3FormsRequest struct {
	AccessKey string `json:"access_key"`
	Subject   string `json:"subject"`
	FromName  string `json:"from_name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

type web3FormsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Send posts one feedback entry. Returns an error when the transport fails or
// the API reports failure.
func (n *Web3FormsNotifier) Send(fb models.Feedback) error {
	requestBody, err := json.Marshal(web3FormsRequest{
		AccessKey: n.accessKey,
		Subject:   fmt.Sprintf("Scrum Poker Feedback - %d stars", fb.Rating),
		FromName:  "Scrum Poker Feedback",
		Email:     fb.Email,
		Message:   formatNotification(fb),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, n.endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var result web3FormsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("unexpected response: %s", string(body))
	}
	if !result.Success {
		return fmt.Errorf("web3forms error: %s", result.Message)
	}
	return nil
}

func formatNotification(fb models.Feedback) string {
	stars := strings.Repeat("⭐", fb.Rating)
	return strings.TrimSpace(fmt.Sprintf(`
New Scrum Poker Feedback Received!

%s Rating: %d / 5 stars

Contact Email: %s
Room: %s
Timestamp: %s

Message:
%s

---
Sent from Scrum Poker Feedback System
`, stars, fb.Rating, fb.Email, fb.Room, fb.Timestamp, fb.Message))
}
