// Package capi forwards client-tracked marketing events to the
// Facebook Conversions API with a server-held access token. The relay
// exists purely for delivery redundancy next to the browser pixel, so
// failures are reported to the caller but never retried.
package capi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultEndpoint is the Graph API base URL events are forwarded to.
const DefaultEndpoint = "https://graph.facebook.com/v18.0"

// ErrNotConfigured is returned when no access token is configured.
var ErrNotConfigured = errors.New("facebook access token not configured")

// Config holds the relay settings.
type Config struct {
	Enabled     bool   `toml:"enabled"`
	PixelID     string `toml:"pixelId"`
	AccessToken string `toml:"accessToken"`
	// Endpoint overrides the Graph API base URL (used in tests).
	Endpoint string `toml:"endpoint"`
}

// UserData carries the browser-side identifiers of the visitor the
// event belongs to.
type UserData struct {
	EventSourceURL  string `json:"event_source_url"`
	ClientIPAddress string `json:"client_ip_address"`
	ClientUserAgent string `json:"client_user_agent"`
	FBP             string `json:"fbp"`
	FBC             string `json:"fbc"`
}

// Event is the relay request body posted by the storefront.
type Event struct {
	EventName string                 `json:"eventName"`
	EventData map[string]interface{} `json:"eventData"`
	EventID   string                 `json:"eventId"`
	UserData  UserData               `json:"userData"`
}

// Client sends conversion events to the Graph API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a relay client.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// Enabled reports whether the relay is configured to forward events.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled
}

// Send forwards one event and returns the raw Graph API response body.
// Events without an ID get a generated one so the pixel and the relay
// can still be deduplicated downstream.
func (c *Client) Send(event Event) (json.RawMessage, error) {
	if c.cfg.AccessToken == "" {
		return nil, ErrNotConfigured
	}

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	payload := map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"event_name":       event.EventName,
				"event_time":       time.Now().Unix(),
				"event_id":         event.EventID,
				"event_source_url": event.UserData.EventSourceURL,
				"action_source":    "website",
				"user_data": map[string]string{
					"client_ip_address": event.UserData.ClientIPAddress,
					"client_user_agent": event.UserData.ClientUserAgent,
					"fbp":               event.UserData.FBP,
					"fbc":               event.UserData.FBC,
				},
				"custom_data": event.EventData,
			},
		},
		"access_token": c.cfg.AccessToken,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode conversion event")
	}

	url := fmt.Sprintf("%s/%s/events", c.cfg.Endpoint, c.cfg.PixelID)

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to forward conversion event")
	}
	defer func() { _ = resp.Body.Close() }()

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read conversion response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("conversion endpoint returned status %d: %s", resp.StatusCode, result)
	}

	log.Debug().
		Str("event_name", event.EventName).
		Str("event_id", event.EventID).
		Msg("conversion event forwarded")

	return result, nil
}
