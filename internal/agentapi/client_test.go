package agentapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailagent/dashboard/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	client, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	client, err = New(Config{BaseURL: "http://agent:5000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://agent:5000", client.BaseURL())

	_, err = New(Config{BaseURL: "agent-without-scheme"})
	assert.Error(t, err)
}

func TestClient_ListEmails_UnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/emails", r.URL.Path)
		assert.Equal(t, "Meeting", r.URL.Query().Get("category"))
		assert.Equal(t, "false", r.URL.Query().Get("processed"))
		assert.Equal(t, "budget", r.URL.Query().Get("search"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":1,"sender":"bob@example.com","subject":"Standup","body":"9am","category":"Meeting",
			 "timestamp":"2024-03-05T10:00:00Z","is_read":0,"is_processed":1}
		]}`)
	})

	processed := false
	emails, err := client.ListEmails(context.Background(), domain.EmailFilter{
		Category:  "Meeting",
		Processed: &processed,
		Search:    "budget",
	})

	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, int64(1), emails[0].ID)
	assert.True(t, bool(emails[0].IsProcessed))
	assert.False(t, bool(emails[0].IsRead))
	assert.Equal(t, 2024, emails[0].Timestamp.Year())
}

func TestClient_BareBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emails/stats", r.URL.Path)
		_, _ = io.WriteString(w, `{"total":3,"processed":1}`)
	})

	stats, err := client.EmailStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(3), stats["total"])
}

func TestClient_EmptyListIsNotNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})

	drafts, err := client.ListDrafts(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}

func TestClient_ListDraftsByEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/agent/drafts", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("emailId"))
		_, _ = io.WriteString(w, `[{"id":7,"email_id":42,"subject":"Re: hi","body":"hello"}]`)
	})

	drafts, err := client.ListDrafts(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, int64(42), drafts[0].EmailID)
}

func TestClient_RequestIDFromContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-123", r.Header.Get(HeaderRequestID))
		_, _ = io.WriteString(w, `{}`)
	})

	ctx := WithRequestID(context.Background(), "req-123")
	require.NoError(t, client.DeleteEmail(ctx, 5))
}

func TestClient_Chat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/agent/chat", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is urgent?", body["query"])
		assert.Equal(t, "specific_email", body["context"])
		assert.Equal(t, float64(9), body["emailId"])

		_, _ = io.WriteString(w, `{"success":true,"data":{"reply":"Nothing urgent."}}`)
	})

	reply, err := client.Chat(context.Background(), "what is urgent?", domain.ChatContextSpecificEmail, 9)
	require.NoError(t, err)
	assert.Equal(t, "Nothing urgent.", reply.Reply)
}

func TestClient_ChatOmitsZeroEmailID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasEmail := body["emailId"]
		assert.False(t, hasEmail)
		_, _ = io.WriteString(w, `{"success":true,"data":"plain answer"}`)
	})

	reply, err := client.Chat(context.Background(), "hi", domain.ChatContextAllEmails, 0)
	require.NoError(t, err)
	assert.Equal(t, "plain answer", reply.Reply)
}

func TestClient_UpdateActionStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/actions/3/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])

		_, _ = io.WriteString(w, `{"success":true,"data":{"id":3,"email_id":1,"task_description":"Pay","status":"completed"}}`)
	})

	item, err := client.UpdateActionStatus(context.Background(), 3, domain.ActionStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionStatusCompleted, item.Status)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		message  string
		sentinel error
	}{
		{"server error", http.StatusBadGateway, `{"error":"boom"}`, MsgServer, ErrServer},
		{"not found", http.StatusNotFound, `{"error":"no email"}`, MsgNotFound, ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, ``, MsgUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ``, MsgForbidden, ErrForbidden},
		{"error field", http.StatusBadRequest, `{"error":"Query is required"}`, "Query is required", ErrRejected},
		{"message field", http.StatusUnprocessableEntity, `{"message":"Invalid prompt"}`, "Invalid prompt", ErrRejected},
		{"no message", http.StatusTeapot, `not json`, "Error 418", ErrRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GetEmail(context.Background(), 1)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.HTTPStatus())
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestClient_SuccessFalse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"Prompt already exists"}`)
	})

	_, err := client.CreatePrompt(context.Background(), domain.CreatePromptInput{Name: "x", PromptText: "y"})
	require.Error(t, err)
	assert.Equal(t, "Prompt already exists", Message(err, "fallback"))
	assert.ErrorIs(t, err, ErrRejected)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.ListPrompts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, MsgTimeout, Message(err, ""))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusGatewayTimeout, apiErr.HTTPStatus())
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	err = client.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, MsgNetwork, Message(err, ""))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus())
}

func TestClient_CanceledContextSkipsRequest(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListActions(ctx, domain.ActionStatusPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Failed to load emails", Message(errors.New("decode"), "Failed to load emails"))
	assert.Equal(t, MsgUnexpected, Message(errors.New("decode"), ""))
	assert.Equal(t, MsgNotFound, Message(newStatusError(404, nil), "x"))
}

func TestUnwrapEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"data object", `{"success":true,"data":{"a":1}}`, `{"a":1}`},
		{"data null falls back to body", `{"success":true,"data":null}`, `{"success":true,"data":null}`},
		{"data zero falls back to body", `{"data":0}`, `{"data":0}`},
		{"array body", `[1,2]`, `[1,2]`},
		{"empty body", ``, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, apiErr := unwrapEnvelope(http.StatusOK, []byte(tt.raw))
			require.Nil(t, apiErr)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}
