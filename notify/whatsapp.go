package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// kenyaCountryCode is prepended when a bare local number is supplied.
const kenyaCountryCode = "254"

// WhatsAppClient sends text messages through a third-party messaging API.
type WhatsAppClient struct {
	apiURL string
	token  string
	client *http.Client
}

// NewWhatsAppClient creates a WhatsApp client. apiURL and token come from
// the environment; when either is missing, Send short-circuits to a
// reported failure without attempting the network call.
func NewWhatsAppClient(apiURL, token string) *WhatsAppClient {
	return &WhatsAppClient{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether API credentials are present.
func (w *WhatsAppClient) Configured() bool {
	return w.apiURL != "" && w.token != ""
}

// NormalizePhone converts a raw phone number into E.164-like form,
// assuming the Kenyan country code for bare 9- or 10-digit local numbers.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", fmt.Errorf("empty phone number")
	}

	if strings.HasPrefix(cleaned, "+") {
		cleaned = cleaned[1:]
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid phone number %q", raw)
		}
	}

	switch {
	case strings.HasPrefix(cleaned, kenyaCountryCode) && len(cleaned) == 12:
		// Already carries the country code.
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		cleaned = kenyaCountryCode + cleaned[1:]
	case len(cleaned) == 9:
		cleaned = kenyaCountryCode + cleaned
	default:
		return "", fmt.Errorf("unrecognized phone number format %q", raw)
	}

	return "+" + cleaned, nil
}

// Send delivers a text message to the given phone number.
func (w *WhatsAppClient) Send(ctx context.Context, phone, message string) error {
	if !w.Configured() {
		return fmt.Errorf("whatsapp credentials not configured")
	}

	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"to":   normalized,
		"type": "text",
		"text": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp API returned status %d", resp.StatusCode)
	}

	return nil
}
