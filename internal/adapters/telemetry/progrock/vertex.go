package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

const (
	progressStep        = 10
	unknownProgressStep = 4 << 20
	mebibyte            = 1 << 20
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder

	mu       sync.Mutex
	reported int64
}

// Stdout returns a writer for step output.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Progress writes a progress line every tenth of total, or every few MiB when total is unknown.
func (v *Vertex) Progress(current, total int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if total <= 0 {
		if current-v.reported < unknownProgressStep {
			return
		}
		v.reported = current
		_, _ = fmt.Fprintf(v.vertex.Stdout(), "%.1f MiB\n", float64(current)/mebibyte)
		return
	}

	percent := current * 100 / total
	if percent < v.reported+progressStep && percent < 100 {
		return
	}
	if percent == 100 && v.reported == 100 {
		return
	}
	v.reported = percent - percent%progressStep
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "%.1f of %.1f MiB (%d%%)\n",
		float64(current)/mebibyte, float64(total)/mebibyte, percent)
}

// Complete marks the vertex as finished (successfully or with an error).
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}

// Cached marks the vertex as satisfied without work.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}
