// Package testserver runs an in-process push endpoint for tests. It
// accepts websocket upgrades, records the bearer token of each session
// and lets tests push notifications, answer invocations and force
// connection drops.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ticketflow/notify-go/pkg/notify"
	"github.com/ticketflow/notify-go/pkg/wire"
)

// InvokeFunc answers an invocation. Returning a non-nil error produces
// an error result on the wire instead of a value.
type InvokeFunc func(method string, args []any) (any, error)

// Server is an in-process websocket push endpoint.
type Server struct {
	httpSrv  *httptest.Server
	upgrader websocket.Upgrader

	mu         sync.Mutex
	conns      map[*websocket.Conn]struct{}
	tokens     []string
	rejectNext int
	onInvoke   InvokeFunc

	connCh chan struct{}
}

// New starts a server. Callers must Close it when done.
func New() *Server {
	s := &Server{
		conns:  make(map[*websocket.Conn]struct{}),
		connCh: make(chan struct{}, 16),
	}
	s.onInvoke = func(method string, args []any) (any, error) {
		return map[string]any{"method": method, "args": args}, nil
	}
	s.httpSrv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the websocket endpoint URL.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.httpSrv.URL, "http")
}

// Close drops all sessions and stops the server.
func (s *Server) Close() {
	s.Drop()
	s.httpSrv.Close()
}

// OnInvoke replaces the invocation handler. The default echoes the
// method and arguments back as the result value.
func (s *Server) OnInvoke(fn InvokeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvoke = fn
}

// RejectNext makes the next n upgrade attempts fail with 503.
func (s *Server) RejectNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectNext = n
}

// Tokens returns the bearer tokens seen across all sessions, in order
// of connection.
func (s *Server) Tokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// ConnCount returns the number of live sessions.
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// WaitConn blocks until a new session is established or the timeout
// elapses. It returns false on timeout.
func (s *Server) WaitConn(timeout time.Duration) bool {
	select {
	case <-s.connCh:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Push sends a notification to every live session.
func (s *Server) Push(n notify.Notification) error {
	data, err := wire.EncodeNotification(n)
	if err != nil {
		return err
	}
	return s.broadcast(data)
}

// PushRaw sends an arbitrary frame to every live session. Tests use it
// to exercise malformed input handling.
func (s *Server) PushRaw(data []byte) error {
	return s.broadcast(data)
}

// Drop forcibly closes every live session without a close handshake.
func (s *Server) Drop() {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

func (s *Server) broadcast(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.rejectNext > 0 {
		s.rejectNext--
		s.mu.Unlock()
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.tokens = append(s.tokens, token)
	s.mu.Unlock()

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns[ws] = struct{}{}
	s.mu.Unlock()

	select {
	case s.connCh <- struct{}{}:
	default:
	}

	go s.readLoop(ws)
}

func (s *Server) readLoop(ws *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, ws)
		s.mu.Unlock()
		ws.Close()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		env, err := wire.DecodeEnvelope(data)
		if err != nil || env.Type != wire.TypeInvoke {
			continue
		}
		inv, err := wire.DecodeInvocation(env.Payload)
		if err != nil {
			continue
		}
		s.answer(ws, inv)
	}
}

func (s *Server) answer(ws *websocket.Conn, inv *wire.Invocation) {
	s.mu.Lock()
	fn := s.onInvoke
	s.mu.Unlock()

	result := wire.Result{ID: inv.ID}
	value, err := fn(inv.Method, inv.Args)
	if err != nil {
		result.Error = err.Error()
	} else if value != nil {
		encoded, encErr := json.Marshal(value)
		if encErr != nil {
			result.Error = encErr.Error()
		} else {
			result.Value = encoded
		}
	}

	data, err := wire.EncodeResult(result)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[ws]; ok {
		ws.WriteMessage(websocket.TextMessage, data)
	}
}
