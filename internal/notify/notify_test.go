package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	name  string
	err   error
	calls int
}

func (s *stubSender) Send(ctx context.Context, r Report) error {
	s.calls++
	return s.err
}

func (s *stubSender) Name() string { return s.name }

func TestDispatchReachesAllSenders(t *testing.T) {
	a := &stubSender{name: "a"}
	b := &stubSender{name: "b"}

	d := NewDispatcher(a, b)
	err := d.Dispatch(context.Background(), Report{Chunks: []string{"x"}})

	require.NoError(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	failing := &stubSender{name: "broken", err: errors.New("boom")}
	healthy := &stubSender{name: "ok"}

	d := NewDispatcher(failing, healthy)
	err := d.Dispatch(context.Background(), Report{Chunks: []string{"x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 1, healthy.calls, "failure in one channel must not skip the others")
}

func TestDispatchNoSenders(t *testing.T) {
	d := NewDispatcher()
	assert.NoError(t, d.Dispatch(context.Background(), Report{Chunks: []string{"x"}}))
}

func TestDiscordSendsOnePayloadPerChunk(t *testing.T) {
	var payloads []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		payloads = append(payloads, body["content"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	err := s.Send(context.Background(), Report{Chunks: []string{"first", "second"}})

	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, "```first```", payloads[0])
	assert.Equal(t, "```second```", payloads[1])
}

func TestDiscordFailedChunkDoesNotStopRemaining(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	err := s.Send(context.Background(), Report{Chunks: []string{"a", "b", "c"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, 3, hits)
}

func TestDiscordUnreachable(t *testing.T) {
	s := NewDiscordSender("http://127.0.0.1:1/webhook")
	err := s.Send(context.Background(), Report{Chunks: []string{"a"}})
	require.Error(t, err)
}

func TestEmailSenderName(t *testing.T) {
	s := NewEmailSender(EmailConfig{})
	assert.Equal(t, "email", s.Name())
}
