package progrock

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"
)

const (
	colorGreen = "#12B76A"
	colorRed   = "#F04438"
	colorSlate = "#667085"

	iconStarted   = "•"
	iconCompleted = "✓"
	iconFailed    = "✗"
	logIndent     = "  "
)

var _ progrock.Writer = (*ConsoleWriter)(nil)

// ConsoleWriter renders progrock status updates as plain lines: one when a vertex starts,
// one when it finishes, and its log output indented underneath.
type ConsoleWriter struct {
	mu  sync.Mutex
	out *termenv.Output

	names    map[string]string
	finished map[string]bool
	midLine  map[string]bool
}

// NewConsoleWriter creates a ConsoleWriter writing to w.
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		out:      termenv.NewOutput(w),
		names:    make(map[string]string),
		finished: make(map[string]bool),
		midLine:  make(map[string]bool),
	}
}

// WriteStatus renders an update.
func (c *ConsoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range update.Vertexes {
		c.renderVertex(v)
	}
	for _, l := range update.Logs {
		c.renderLog(l.Vertex, l.Data)
	}
	return nil
}

// Close does nothing; every update is written as it arrives.
func (c *ConsoleWriter) Close() error {
	return nil
}

func (c *ConsoleWriter) renderVertex(v *progrock.Vertex) {
	if _, seen := c.names[v.Id]; !seen {
		c.names[v.Id] = v.Name
		c.line(iconStarted, colorSlate, v.Name)
	}
	if c.finished[v.Id] {
		return
	}

	switch {
	case v.Cached:
		c.finished[v.Id] = true
		c.line(iconCompleted, colorGreen, v.Name+" (cached)")
	case v.Completed != nil && v.Error != nil:
		c.finished[v.Id] = true
		c.line(iconFailed, colorRed, v.Name+": "+*v.Error)
	case v.Completed != nil:
		c.finished[v.Id] = true
		c.line(iconCompleted, colorGreen, v.Name)
	}
}

func (c *ConsoleWriter) renderLog(vertexID string, data []byte) {
	for len(data) > 0 {
		if !c.midLine[vertexID] {
			_, _ = io.WriteString(c.out, logIndent)
		}
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			_, _ = c.out.Write(data)
			c.midLine[vertexID] = true
			return
		}
		_, _ = c.out.Write(data[:i+1])
		c.midLine[vertexID] = false
		data = data[i+1:]
	}
}

func (c *ConsoleWriter) line(icon, color, text string) {
	styled := c.out.String(icon).Foreground(c.out.Color(color))
	_, _ = fmt.Fprintf(c.out, "%s %s\n", styled, text)
}
