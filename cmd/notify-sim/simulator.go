package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ticketflow/notify-go/pkg/notify"
	"github.com/ticketflow/notify-go/pkg/wire"
)

// sample is one synthetic notification template.
type sample struct {
	category notify.Category
	title    string
	message  string
	data     string
}

var samples = []sample{
	{notify.CategoryOrderConfirmed, "Order confirmed", "Your tickets for Summer Fest are booked", `{"orderId":"ord-1001","seats":["A1","A2"]}`},
	{notify.CategoryOrderCancelled, "Order cancelled", "Order ord-1002 was cancelled", `{"orderId":"ord-1002"}`},
	{notify.CategoryTicketCheckedIn, "Checked in", "Ticket tck-37 was scanned at gate 4", `{"ticketId":"tck-37","gate":4}`},
	{notify.CategoryPaymentCompleted, "Payment completed", "Payment of 45.00 received", `{"orderId":"ord-1001","amountCents":4500}`},
	{notify.CategoryPaymentFailed, "Payment failed", "Your card was declined", `{"orderId":"ord-1003","reason":"card_declined"}`},
	{notify.CategoryEventUpdated, "Event updated", "Summer Fest moved to the main arena", `{"eventId":"evt-17","venue":"Main Arena"}`},
	{notify.CategoryEventCancelled, "Event cancelled", "Winter Gala has been cancelled", `{"eventId":"evt-23","refund":true}`},
}

// simulator broadcasts synthetic notifications to all connected sessions.
type simulator struct {
	token    string
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	next  int
}

func newSimulator(token string) *simulator {
	return &simulator{
		token: token,
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (s *simulator) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.token != "" {
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if got != s.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns[ws] = struct{}{}
	n := len(s.conns)
	s.mu.Unlock()
	fmt.Printf("session from %s (%d active)\n", ws.RemoteAddr(), n)

	go s.readLoop(ws)
}

// emitLoop pushes one synthetic notification per tick, cycling through
// the category templates.
func (s *simulator) emitLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.emit()
		}
	}
}

func (s *simulator) emit() {
	s.mu.Lock()
	tpl := samples[s.next%len(samples)]
	s.next++
	s.mu.Unlock()

	data, err := wire.EncodeNotification(notify.Notification{
		Category:  tpl.category,
		Title:     tpl.title,
		Message:   tpl.message,
		Data:      json.RawMessage(tpl.data),
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}
	s.broadcast(data)
}

func (s *simulator) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws := range s.conns {
		ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(s.conns, ws)
			ws.Close()
		}
	}
}

func (s *simulator) readLoop(ws *websocket.Conn) {
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

		value, _ := json.Marshal(map[string]any{
			"method": inv.Method,
			"args":   inv.Args,
		})
		reply, err := wire.EncodeResult(wire.Result{ID: inv.ID, Value: value})
		if err != nil {
			continue
		}

		s.mu.Lock()
		ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		ws.WriteMessage(websocket.TextMessage, reply)
		s.mu.Unlock()
	}
}
