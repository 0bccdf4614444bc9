package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendAPI = "https://api.resend.com/emails"

// resendSendRequest matches the Resend send-email body.
type resendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendSendResponse struct {
	ID string `json:"id"`
}

// Sender sends one transactional email and returns the provider message id.
// A nil/no-key client is a no-op so local dev works without credentials.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// ResendClient sends email through the Resend API.
type ResendClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *ResendClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "EquityMD <noreply@equitymd.com>"
}

// Send posts one email. Returns the Resend message id.
func (c *ResendClient) Send(ctx context.Context, to, subject, html string) (string, error) {
	if c.APIKey == "" {
		return "", nil
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	body := resendSendRequest{
		From:    c.from(),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("resend send failed: status %d body: %s", resp.StatusCode, string(respBody))
	}
	var out resendSendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("resend response decode: %w", err)
	}
	return out.ID, nil
}
