package capi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendNotConfigured(t *testing.T) {
	client := New(Config{Enabled: true, PixelID: "123"})

	_, err := client.Send(Event{EventName: "Contact"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend(t *testing.T) {
	var received map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_, _ = w.Write([]byte(`{"events_received":1}`))
	}))
	defer srv.Close()

	client := New(Config{
		Enabled:     true,
		PixelID:     "123",
		AccessToken: "token",
		Endpoint:    srv.URL,
	})

	result, err := client.Send(Event{
		EventName: "Contact",
		EventID:   "contact_17_1700000000",
		EventData: map[string]interface{}{"contact_method": "whatsapp"},
		UserData: UserData{
			EventSourceURL:  "https://italiaatelier.example/",
			ClientUserAgent: "test-agent",
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"events_received":1}`, string(result))

	assert.Equal(t, "token", received["access_token"])

	data, ok := received["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)

	entry, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Contact", entry["event_name"])
	assert.Equal(t, "contact_17_1700000000", entry["event_id"])
	assert.Equal(t, "website", entry["action_source"])
}

func TestSendGeneratesEventID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		entry := payload["data"].([]interface{})[0].(map[string]interface{})
		assert.NotEmpty(t, entry["event_id"])

		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(Config{Enabled: true, PixelID: "123", AccessToken: "token", Endpoint: srv.URL})

	_, err := client.Send(Event{EventName: "ViewContent"})
	require.NoError(t, err)
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer srv.Close()

	client := New(Config{Enabled: true, PixelID: "123", AccessToken: "token", Endpoint: srv.URL})

	_, err := client.Send(Event{EventName: "Contact"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
