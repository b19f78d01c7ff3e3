package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// SSE event names.
const (
	eventStep       = "step"
	eventCategories = "categories"
	eventFilter     = "filter"
	eventActivity   = "activity"
	eventResults    = "results"
	eventAnswer     = "answer"
	eventDone       = "done"
	eventError      = "error"
)

// sseWriter frames JSON payloads as server-sent events.
type sseWriter struct {
	w   http.ResponseWriter
	rc  *http.ResponseController
	err error
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	return &sseWriter{w: w, rc: http.NewResponseController(w)}
}

// send writes one event. After the first write error the stream is dead and
// later sends are dropped.
func (s *sseWriter) send(name string, payload any) {
	if s.err != nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.err = fmt.Errorf("encode %s event: %w", name, err)
		return
	}
	if _, err := fmt.Fprintf(s.w, "id: %s\nevent: %s\ndata: %s\n\n", uuid.NewString(), name, data); err != nil {
		s.err = fmt.Errorf("write %s event: %w", name, err)
		return
	}
	if err := s.rc.Flush(); err != nil {
		s.err = fmt.Errorf("flush %s event: %w", name, err)
	}
}
