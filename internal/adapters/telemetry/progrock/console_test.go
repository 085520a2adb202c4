package progrock_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	bprogrock "go.trai.ch/bonsai/internal/adapters/telemetry/progrock"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestConsoleWriter_VertexLifecycle(t *testing.T) {
	var buf bytes.Buffer
	w := bprogrock.NewConsoleWriter(&buf)

	require.NoError(t, w.WriteStatus(&progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{{Id: "1", Name: "Download Bonsai 2.8.5"}},
	}))
	require.NoError(t, w.WriteStatus(&progrock.StatusUpdate{
		Logs: []*progrock.VertexLog{
			{Vertex: "1", Data: []byte("1.0 of 2.0 ")},
			{Vertex: "1", Data: []byte("MiB (50%)\n")},
		},
	}))

	now := timestamppb.New(time.Now())
	done := &progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{{Id: "1", Name: "Download Bonsai 2.8.5", Completed: now}},
	}
	require.NoError(t, w.WriteStatus(done))
	require.NoError(t, w.WriteStatus(done))
	require.NoError(t, w.Close())

	assert.Equal(t,
		"• Download Bonsai 2.8.5\n"+
			"  1.0 of 2.0 MiB (50%)\n"+
			"✓ Download Bonsai 2.8.5\n",
		buf.String())
}

func TestConsoleWriter_FailedAndCached(t *testing.T) {
	var buf bytes.Buffer
	w := bprogrock.NewConsoleWriter(&buf)

	msg := "boom"
	now := timestamppb.New(time.Now())
	require.NoError(t, w.WriteStatus(&progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{
			{Id: "a", Name: "Install Foo", Completed: now, Error: &msg},
			{Id: "b", Name: "Install Bar", Cached: true},
		},
	}))

	assert.Equal(t,
		"• Install Foo\n"+
			"✗ Install Foo: boom\n"+
			"• Install Bar\n"+
			"✓ Install Bar (cached)\n",
		buf.String())
}
