package runner

import (
	"errors"
	"io"
	"sync"

	"github.com/goccy/go-json"
)

// ErrReported is returned by Emit after the first outcome was written
var ErrReported = errors.New("outcome already reported")

// Reporter writes the single payload line of an invocation
type Reporter struct {
	w       io.Writer
	mu      sync.Mutex
	emitted bool
}

// NewReporter creates a Reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Emit encodes o as one JSON line. Only the first call writes.
func (r *Reporter) Emit(o Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emitted {
		return ErrReported
	}
	r.emitted = true

	var v interface{}
	switch o := o.(type) {
	case Result:
		o.Error = false
		v = o
	case Failure:
		o.Error = true
		v = o
	default:
		v = NewFailure(nil)
	}
	return json.NewEncoder(r.w).Encode(v)
}

// Emitted reports whether an outcome was written
func (r *Reporter) Emitted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emitted
}
