package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	eventssvc "github.com/m2dev/codefolio/internal/services/events"
)

const watchKeepAlive = 25 * time.Second

var watchableCollections = map[string]bool{
	"profile":     true,
	"projects":    true,
	"skills":      true,
	"experiences": true,
}

// WatchHandler streams collection change notifications over SSE. Events
// carry no payload beyond the collection name; subscribers re-fetch the
// collection when one arrives.
type WatchHandler struct {
	feed *eventssvc.Feed
}

func NewWatchHandler(feed *eventssvc.Feed) *WatchHandler {
	return &WatchHandler{feed: feed}
}

func (h *WatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		writeInternal(w, "WATCH_UNAVAILABLE", "change feed is unavailable")
		return
	}

	collection := chi.URLParam(r, "name")
	if !watchableCollections[collection] {
		writeNotFound(w, "NOT_FOUND", "unknown collection")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeInternal(w, "STREAMING_UNSUPPORTED", "streaming is not supported")
		return
	}

	events, cancel, err := h.feed.Watch(r.Context(), collection)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// First event makes fresh subscribers load a snapshot right away.
	writeChangeEvent(w, collection)
	flusher.Flush()

	keepAlive := time.NewTicker(watchKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			writeChangeEvent(w, collection)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeChangeEvent(w http.ResponseWriter, collection string) {
	fmt.Fprintf(w, "event: change\ndata: %s\n\n", collection)
}
