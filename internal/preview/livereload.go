package preview

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Descent098/ezcv/internal/logfields"
)

const (
	heartbeatInterval = 30 * time.Second
	subscriberBuffer  = 8
)

// LiveReloadHub fans build identifiers out to connected browsers over
// server-sent events.
type LiveReloadHub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	last   string
	closed bool
}

type subscriber struct {
	events chan string
	gone   chan struct{}
	once   sync.Once
}

func (s *subscriber) drop() { s.once.Do(func() { close(s.gone) }) }

func NewLiveReloadHub() *LiveReloadHub {
	return &LiveReloadHub{subs: map[*subscriber]struct{}{}}
}

// subscribe registers a browser and returns the hash it should start from.
// It fails once the hub is shut down.
func (h *LiveReloadHub) subscribe() (*subscriber, string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, "", false
	}
	s := &subscriber{events: make(chan string, subscriberBuffer), gone: make(chan struct{})}
	h.subs[s] = struct{}{}
	return s, h.last, true
}

func (h *LiveReloadHub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
	s.drop()
}

// ServeHTTP streams build events. The latest hash, if any, is sent first so
// the page has a baseline to compare against.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	sub, current, ok := h.subscribe()
	if !ok {
		http.Error(w, "live reload is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.unsubscribe(sub)

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")

	write := func(frame string) bool {
		if _, err := fmt.Fprint(w, frame); err != nil {
			slog.Debug("Live reload client went away", logfields.Error(err))
			return false
		}
		flusher.Flush()
		return true
	}
	if !write(": connected\n\n") || (current != "" && !write(event(current))) {
		return
	}

	ping := time.NewTicker(heartbeatInterval)
	defer ping.Stop()
	for {
		select {
		case hash := <-sub.events:
			if !write(event(hash)) {
				return
			}
		case <-ping.C:
			if !write(": ping\n\n") {
				return
			}
		case <-sub.gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func event(hash string) string {
	return "data: {\"hash\":\"" + hash + "\"}\n\n"
}

// Clients returns the number of connected browsers.
func (h *LiveReloadHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast sends hash to every browser. Repeating the last hash does
// nothing; a browser whose buffer is full is disconnected and reconnects on
// its own.
func (h *LiveReloadHub) Broadcast(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || hash == "" || hash == h.last {
		return
	}
	h.last = hash
	slow := 0
	for s := range h.subs {
		select {
		case s.events <- hash:
		default:
			slow++
			delete(h.subs, s)
			s.drop()
		}
	}
	slog.Debug("Live reload broadcast", logfields.Event(hash), logfields.Count(len(h.subs)), slog.Int("dropped", slow))
}

// Shutdown disconnects every browser and refuses new ones.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		s.drop()
	}
	clear(h.subs)
}

// liveReloadScript connects to the hub and reloads the page when the build
// hash changes.
const liveReloadScript = `(() => {
  if (window.__EZCV_LR__) return;
  window.__EZCV_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();`
