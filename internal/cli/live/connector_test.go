package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// лестница задержек: 1s, 2s, 4s, 8s, 16s, дальше потолок 30s
func TestBackoffPolicy_DeterministicLadder(t *testing.T) {
	bo := newBackoffPolicy()
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, bo.NextBackOff(), "step %d", i)
	}
}

func TestConnector_NoopWithoutUserOrToken(t *testing.T) {
	var dials atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
	}))
	defer srv.Close()

	c := NewConnector(wsURL(srv), 0, func() string { return "a1" }, zap.NewNop().Sugar())
	c.Connect()
	assert.EqualValues(t, 0, dials.Load())
	assert.Equal(t, StateClosed, c.State())

	c = NewConnector(wsURL(srv), 7, func() string { return "" }, zap.NewNop().Sugar())
	c.Connect()
	assert.EqualValues(t, 0, dials.Load())
}

func TestConnector_DeliversFramesAndDropsMalformed(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ws/7", r.URL.Path)
		require.Equal(t, "a1", r.URL.Query().Get("token"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{broken`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"vital_update","data":{"heart_rate":72}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"alert","data":{"message":"Low SpO2"}}`))
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewConnector(wsURL(srv), 7, func() string { return "a1" }, zap.NewNop().Sugar())
	vitals := make(chan map[string]any, 1)
	alerts := make(chan map[string]any, 1)
	c.OnVitals = func(d map[string]any) { vitals <- d }
	c.OnAlert = func(d map[string]any) { alerts <- d }
	c.Connect()
	defer c.Close()

	select {
	case d := <-vitals:
		assert.EqualValues(t, 72, d["heart_rate"])
	case <-time.After(2 * time.Second):
		t.Fatal("vital frame not delivered")
	}
	select {
	case d := <-alerts:
		assert.Equal(t, "Low SpO2", d["message"])
	case <-time.After(2 * time.Second):
		t.Fatal("alert frame not delivered")
	}
	assert.Equal(t, StateOpen, c.State())
}

// после Close разрыв не порождает переподключений
func TestConnector_NoReconnectAfterClose(t *testing.T) {
	var dials atomic.Int64
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := NewConnector(wsURL(srv), 7, func() string { return "a1" }, zap.NewNop().Sugar())
	c.bo.InitialInterval = time.Millisecond
	c.bo.MaxInterval = time.Millisecond
	c.bo.Reset()

	c.Connect()
	require.Eventually(t, func() bool { return c.State() == StateOpen }, 2*time.Second, 10*time.Millisecond)

	c.Close()
	time.Sleep(100 * time.Millisecond)

	assert.EqualValues(t, 1, dials.Load())
	assert.Equal(t, StateClosed, c.State())
}

// исчерпание лимита попыток терминально: исходная + 5 повторных, дальше тишина
func TestConnector_GivesUpAfterMaxAttempts(t *testing.T) {
	var dials atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewConnector(wsURL(srv), 7, func() string { return "a1" }, zap.NewNop().Sugar())
	c.bo.InitialInterval = time.Millisecond
	c.bo.MaxInterval = time.Millisecond
	c.bo.Reset()

	c.Connect()

	require.Eventually(t, func() bool { return c.State() == StateClosed }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 6, dials.Load())
}

// успешное подключение сбрасывает счётчик попыток и лестницу задержек
func TestConnector_ResetBackoffAfterReconnect(t *testing.T) {
	var dials atomic.Int64
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		if n == 1 {
			// первый сеанс рвётся сразу
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := NewConnector(wsURL(srv), 7, func() string { return "a1" }, zap.NewNop().Sugar())
	c.bo.InitialInterval = time.Millisecond
	c.bo.MaxInterval = time.Millisecond
	c.bo.Reset()

	c.Connect()
	require.Eventually(t, func() bool {
		return dials.Load() >= 2 && c.State() == StateOpen
	}, 3*time.Second, 10*time.Millisecond)
	defer c.Close()

	c.mu.Lock()
	attempts := c.attempts
	c.mu.Unlock()
	assert.Zero(t, attempts)
}
