package broadcast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahameddd/food-review-app-real/internal/domain"
	"github.com/ahameddd/food-review-app-real/internal/review"
)

type attachOutcome struct {
	session *Session
	err     error
}

// testHub runs a Hub behind a WebSocket test server. dial returns the client
// side of a connection plus the server-side session handle.
func testHub(t *testing.T, reviews *review.Log, maxClients int) (*Hub, func() (*ws.Conn, attachOutcome)) {
	t.Helper()

	if reviews == nil {
		reviews = review.NewLog()
	}
	hub := NewHub(reviews, clockwork.NewRealClock(), maxClients)
	t.Cleanup(func() { hub.Stop() })

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	outcomes := make(chan attachOutcome, 16)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		sess, err := hub.Attach(conn)
		outcomes <- attachOutcome{session: sess, err: err}
	}))
	t.Cleanup(func() { server.Close() })

	dial := func() (*ws.Conn, attachOutcome) {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })

		select {
		case outcome := <-outcomes:
			return conn, outcome
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for attach")
			return nil, attachOutcome{}
		}
	}

	return hub, dial
}

func readEnvelope(t *testing.T, conn *ws.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func assertNoMessage(t *testing.T, conn *ws.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err, "expected no message to arrive")
}

func TestHub_AttachReplaysBacklogInOrder(t *testing.T) {
	reviews := review.NewLog()
	for _, name := range []string{"first", "second", "third"} {
		reviews.Append(domain.Review{
			Username:  name,
			Text:      "fine",
			Sentiment: domain.SentimentNeutral,
		})
	}

	_, dial := testHub(t, reviews, 0)
	conn, outcome := dial()
	require.NoError(t, outcome.err)

	for _, want := range []string{"first", "second", "third"} {
		envelope := readEnvelope(t, conn)
		assert.Equal(t, "review", envelope["type"])
		assert.Equal(t, want, envelope["username"])
	}
}

func TestHub_AttachEmptyBacklog(t *testing.T) {
	_, dial := testHub(t, nil, 0)
	conn, outcome := dial()
	require.NoError(t, outcome.err)

	assertNoMessage(t, conn)
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	hub, dial := testHub(t, nil, 0)

	connA, outcomeA := dial()
	require.NoError(t, outcomeA.err)
	connB, outcomeB := dial()
	require.NoError(t, outcomeB.err)

	hub.Broadcast([]byte(`{"type":"system","message":"hello"}`), outcomeA.session)

	envelope := readEnvelope(t, connB)
	assert.Equal(t, "hello", envelope["message"])
	assertNoMessage(t, connA)
}

func TestHub_PublishReviewReachesEveryoneIncludingSender(t *testing.T) {
	hub, dial := testHub(t, nil, 0)

	connA, outcomeA := dial()
	require.NoError(t, outcomeA.err)
	connB, outcomeB := dial()
	require.NoError(t, outcomeB.err)

	hub.PublishReview(domain.Review{
		Username:   "Alice",
		Restaurant: "Chez Test",
		Text:       "loved it",
		Ratings:    domain.Ratings{Food: 5, Service: 5, Ambiance: 5, Value: 5},
		Sentiment:  domain.SentimentPositive,
		Timestamp:  "2024-06-01T12:00:00Z",
	})

	for _, conn := range []*ws.Conn{connA, connB} {
		envelope := readEnvelope(t, conn)
		assert.Equal(t, "review", envelope["type"])
		assert.Equal(t, "Chez Test", envelope["restaurant"])
		assert.Equal(t, "Positive", envelope["sentiment"])
	}
}

func TestHub_PublishedReviewsAppearInLaterBacklog(t *testing.T) {
	hub, dial := testHub(t, nil, 0)

	hub.PublishReview(domain.Review{Username: "early", Sentiment: domain.SentimentNeutral})
	hub.PublishReview(domain.Review{Username: "late", Sentiment: domain.SentimentNeutral})

	conn, outcome := dial()
	require.NoError(t, outcome.err)

	first := readEnvelope(t, conn)
	second := readEnvelope(t, conn)
	assert.Equal(t, "early", first["username"])
	assert.Equal(t, "late", second["username"])
}

func TestHub_DetachBroadcastsDepartureExactlyOnce(t *testing.T) {
	hub, dial := testHub(t, nil, 0)

	_, outcomeA := dial()
	require.NoError(t, outcomeA.err)
	connB, outcomeB := dial()
	require.NoError(t, outcomeB.err)

	hub.SetName(outcomeA.session, "Alice")
	hub.Detach(outcomeA.session)
	hub.Detach(outcomeA.session) // double-invocation must not double-broadcast

	envelope := readEnvelope(t, connB)
	assert.Equal(t, "system", envelope["type"])
	assert.Equal(t, "Alice has left the chat", envelope["message"])
	assert.NotEmpty(t, envelope["timestamp"])

	assertNoMessage(t, connB)
}

func TestHub_DetachWithoutJoinIsSilent(t *testing.T) {
	hub, dial := testHub(t, nil, 0)

	_, outcomeA := dial()
	require.NoError(t, outcomeA.err)
	connB, outcomeB := dial()
	require.NoError(t, outcomeB.err)

	hub.Detach(outcomeA.session)

	assertNoMessage(t, connB)
}

func TestHub_CountTracksAttachAndDetach(t *testing.T) {
	hub, dial := testHub(t, nil, 0)
	assert.Equal(t, 0, hub.Count())

	_, outcomeA := dial()
	require.NoError(t, outcomeA.err)
	_, outcomeB := dial()
	require.NoError(t, outcomeB.err)
	assert.Equal(t, 2, hub.Count())

	hub.Detach(outcomeA.session)
	assert.Equal(t, 1, hub.Count())
}

func TestHub_MaxClientsRejectsAttach(t *testing.T) {
	_, dial := testHub(t, nil, 1)

	_, outcomeA := dial()
	require.NoError(t, outcomeA.err)

	_, outcomeB := dial()
	require.Error(t, outcomeB.err)
	assert.Contains(t, outcomeB.err.Error(), "max clients")
}
