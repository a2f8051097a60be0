package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-ats/internal/jobs"
	"github.com/jonathan/resume-ats/internal/regeneration"
)

// eventStream writes a job's progress as Server-Sent Events. Progress events
// carry their index as the SSE id, so a client that reconnects with
// Last-Event-ID only receives what it missed.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// openEventStream sends the stream headers. It fails when w cannot flush.
func openEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &eventStream{w: w, flusher: flusher}, nil
}

func (s *eventStream) send(event, id string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	var b strings.Builder
	if id != "" {
		fmt.Fprintf(&b, "id: %s\n", id)
	}
	fmt.Fprintf(&b, "event: %s\ndata: %s\n\n", event, payload)
	if _, err := s.w.Write([]byte(b.String())); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// progress sends the index-th event of a job
func (s *eventStream) progress(index int, e regeneration.Event) error {
	return s.send("progress", strconv.Itoa(index), e)
}

// failed reports a job or lookup error; write errors are ignored because the
// stream ends right after
func (s *eventStream) failed(message string) {
	_ = s.send("error", "", map[string]string{"error": message})
}

// complete sends the closing event
func (s *eventStream) complete(id uuid.UUID, status jobs.Status) {
	_ = s.send("complete", "", map[string]string{
		"job_id": id.String(),
		"status": string(status),
	})
}

// resumeIndex is the first event index to send, one past the request's
// Last-Event-ID. Missing or malformed IDs start from zero.
func resumeIndex(r *http.Request) int {
	last, err := strconv.Atoi(strings.TrimSpace(r.Header.Get("Last-Event-ID")))
	if err != nil || last < 0 {
		return 0
	}
	return last + 1
}
