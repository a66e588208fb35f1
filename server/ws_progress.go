package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/muntasir-dev/MusicStream/core/importer"
	"github.com/muntasir-dev/MusicStream/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST API is already open CORS-wise; the socket carries only
	// progress events for the authenticated user.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ProgressHub fans bulk-import progress events out to the websocket
// subscribers of each user.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[int64][]chan importer.ProgressEvent
}

// NewProgressHub creates an empty hub.
func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[int64][]chan importer.ProgressEvent)}
}

// Listener returns a ProgressListener that broadcasts into the hub.
func (hub *ProgressHub) Listener() importer.ProgressListener {
	return func(event importer.ProgressEvent) {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for _, ch := range hub.subs[event.UserID] {
			select {
			case ch <- event:
			default:
				// Slow subscriber; drop rather than stall the import.
			}
		}
	}
}

// subscribe registers a new event channel for one user.
func (hub *ProgressHub) subscribe(userID int64) chan importer.ProgressEvent {
	ch := make(chan importer.ProgressEvent, 16)
	hub.mu.Lock()
	hub.subs[userID] = append(hub.subs[userID], ch)
	hub.mu.Unlock()
	return ch
}

// unsubscribe removes a channel registered with subscribe.
func (hub *ProgressHub) unsubscribe(userID int64, ch chan importer.ProgressEvent) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	chans := hub.subs[userID]
	for i, c := range chans {
		if c == ch {
			hub.subs[userID] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(hub.subs[userID]) == 0 {
		delete(hub.subs, userID)
	}
}

// ImportProgressHandler upgrades the connection and streams the user's bulk
// import progress events as JSON messages until the client disconnects.
func (h *APIHandler) ImportProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	ch := h.progress.subscribe(userID)
	defer h.progress.unsubscribe(userID, ch)

	// Drain client frames so pings and close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-ch:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
