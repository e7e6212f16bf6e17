package live

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// State — фаза жизненного цикла live-соединения.
type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
)

// maxReconnectAttempts — предел подряд идущих неудачных переподключений,
// после него соединение терминально закрывается.
const maxReconnectAttempts = 5

// фреймы live-канала
const (
	frameVitalUpdate = "vital_update"
	frameAlert       = "alert"
)

type frame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Connector держит websocket-подписку на живые показатели пользователя
// и переподключается с экспоненциальной задержкой при обрывах.
// Callbacks вызываются из горутины чтения, без удержания внутреннего лока.
type Connector struct {
	wsURL  string
	userID int64
	token  func() string
	log    *zap.SugaredLogger
	dialer *websocket.Dialer

	OnVitals func(map[string]any)
	OnAlert  func(map[string]any)
	OnState  func(State)

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	timer    *time.Timer
	attempts int
	bo       *backoff.ExponentialBackOff
	closed   bool
}

// newBackoffPolicy — детерминированная лестница задержек 1s, 2s, 4s, ...
// с потолком 30s. Jitter выключен: клиентов немного, стадо не страшно.
func newBackoffPolicy() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// NewConnector создаёт коннектор для пользователя userID. token вызывается
// на каждую попытку подключения: после refresh в соединение уходит свежий
// access-токен.
func NewConnector(wsURL string, userID int64, token func() string, log *zap.SugaredLogger) *Connector {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Connector{
		wsURL:  wsURL,
		userID: userID,
		token:  token,
		log:    log,
		dialer: websocket.DefaultDialer,
		state:  StateClosed,
		bo:     newBackoffPolicy(),
	}
}

// State — текущая фаза соединения.
func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connector) setState(s State) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	cb := c.OnState
	c.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}

// endpoint собирает адрес ws(s)://host/ws/{userID}?token={access}.
func (c *Connector) endpoint() string {
	return fmt.Sprintf("%s/ws/%d?token=%s", c.wsURL, c.userID, url.QueryEscape(c.token()))
}

// Connect открывает соединение. Без userID или токена вызов — no-op:
// подписываться не за кого и нечем. Уже закрытый (Close) коннектор
// переподключаться не станет.
func (c *Connector) Connect() {
	c.mu.Lock()
	if c.closed || c.conn != nil {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if c.userID == 0 || c.token() == "" {
		c.log.Debugw("live feed not started: missing user or token")
		return
	}

	c.setState(StateConnecting)

	conn, resp, err := c.dialer.Dial(c.endpoint(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		c.log.Warnw("live feed dial failed", "error", err)
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.attempts = 0
	c.bo.Reset()
	c.mu.Unlock()

	c.setState(StateOpen)
	c.log.Debugw("live feed connected", "user_id", c.userID)
	go c.readLoop(conn)
}

// Close терминально разрывает соединение: гасит таймер переподключения,
// закрывает сокет. Дальнейших попыток не будет.
func (c *Connector) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	c.setState(StateClosed)
}

func (c *Connector) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn)
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			// битый фрейм не валит соединение
			c.log.Warnw("dropping malformed live frame", "error", err)
			continue
		}

		switch f.Type {
		case frameVitalUpdate:
			if c.OnVitals != nil {
				c.OnVitals(f.Data)
			}
		case frameAlert:
			if c.OnAlert != nil {
				c.OnAlert(f.Data)
			}
		default:
			c.log.Debugw("ignoring live frame", "type", f.Type)
		}
	}
}

// handleDisconnect реагирует на обрыв чтения. Срабатывает только для
// актуального соединения: гонка со свежим reconnect не плодит лишних циклов.
func (c *Connector) handleDisconnect(conn *websocket.Conn) {
	c.mu.Lock()
	if c.closed || c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	_ = conn.Close()
	c.scheduleReconnect()
}

// scheduleReconnect взводит собственный таймер на следующую попытку.
// Исчерпание лимита попыток терминально.
func (c *Connector) scheduleReconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.attempts++
	if c.attempts > maxReconnectAttempts {
		c.closed = true
		c.mu.Unlock()
		c.log.Warnw("live feed gave up reconnecting", "attempts", maxReconnectAttempts)
		c.setState(StateClosed)
		return
	}
	delay := c.bo.NextBackOff()
	c.timer = time.AfterFunc(delay, c.Connect)
	c.mu.Unlock()

	c.log.Debugw("live feed reconnect scheduled", "attempt", c.attempts, "delay", delay)
	c.setState(StateConnecting)
}
