// Package progress streams pipeline stage-completion events for one
// in-flight generation request over Server-Sent Events. It is a direct
// adaptation of the teacher's collaborative-game Broadcaster: same
// channel-per-client registration, heartbeat, and non-blocking send, here
// keyed by crossword id and one-way (requester listens, nothing writes
// back) rather than multi-user editable.
package progress

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	channelBuffer = 16
	heartbeat     = 30 * time.Second
)

// Stage names the four pipeline events a generation request reports.
type Stage string

const (
	StageTokenized   Stage = "tokenized"
	StageFiltered    Stage = "filtered"
	StagePlaced      Stage = "placed"
	StagePartitioned Stage = "partitioned"
)

// Client is a single SSE connection subscribed to one crossword id.
type Client struct {
	ch          chan string
	crosswordID string
}

// Broadcaster manages SSE clients grouped by crossword id.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*Client]struct{})}
}

// Register adds a client for a crossword id and returns it.
func (b *Broadcaster) Register(crosswordID string) *Client {
	c := &Client{ch: make(chan string, channelBuffer), crosswordID: crosswordID}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *Client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast sends data to every client subscribed to crosswordID. A
// client whose channel is full is skipped rather than blocking the
// generation goroutine.
func (b *Broadcaster) Broadcast(crosswordID string, stage Stage) {
	data := fmt.Sprintf(`{"stage":%q}`, stage)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients {
		if c.crosswordID == crosswordID {
			select {
			case c.ch <- data:
			default:
			}
		}
	}
}

// ClientCount returns the number of connected clients for a crossword id.
func (b *Broadcaster) ClientCount(crosswordID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.crosswordID == crosswordID {
			n++
		}
	}
	return n
}

// ServeSSE handles an SSE connection for a crossword id's progress feed.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, crosswordID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(crosswordID)
	defer b.Unregister(c)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
