// Package sse streams the admin live feed as Server-Sent Events, for
// clients behind proxies that refuse websocket upgrades.
//
//	adm.Get("/live/stream", "admin.live.stream", sse.Handler(hub, 25*time.Second))
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Subscriber fans out JSON frames. *ws.Hub satisfies it.
type Subscriber interface {
	Subscribe() (<-chan []byte, func())
}

// Stream is one open SSE response.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// New sets the event-stream headers and lifts the server write deadline.
// It returns nil when w cannot flush.
func New(w http.ResponseWriter) *Stream {
	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return nil
	}
	_ = rc.SetWriteDeadline(time.Time{})
	return &Stream{w: w, rc: rc}
}

// Send writes a named event with a JSON payload.
func (s *Stream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	return s.write(event, payload)
}

func (s *Stream) write(event string, payload []byte) error {
	if event != "" {
		if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Comment writes a comment line; used as a heartbeat.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	return s.rc.Flush()
}

type frame struct {
	Type string `json:"type"`
}

// Handler relays every frame from sub until the client disconnects or
// the feed closes. Each frame's "type" becomes the SSE event name.
func Handler(sub Subscriber, heartbeat time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := New(w)
		if s == nil {
			return
		}
		frames, cancel := sub.Subscribe()
		defer cancel()

		tick := time.NewTicker(heartbeat)
		defer tick.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case b, ok := <-frames:
				if !ok {
					return
				}
				var f frame
				_ = json.Unmarshal(b, &f)
				if err := s.write(f.Type, b); err != nil {
					return
				}
			case <-tick.C:
				if err := s.Comment("ping"); err != nil {
					return
				}
			}
		}
	}
}
