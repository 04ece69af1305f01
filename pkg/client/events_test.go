package client

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrdcal/geomodel/pkg/events"
)

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		": connected",
		"",
		"event:geometry.changed",
		`data:{"seq":1}`,
		"",
		": keepalive",
		"",
		"event: geometry.changed",
		`data: {"seq":`,
		`data: 2}`,
		"",
		"event:ignored-without-data",
		"",
		"",
	}, "\n")

	out := make(chan events.Event, 8)
	require.NoError(t, readEvents(context.Background(), strings.NewReader(stream), out))
	close(out)

	var got []events.Event
	for ev := range out {
		got = append(got, ev)
	}
	require.Len(t, got, 2)

	assert.Equal(t, events.GeometryChanged, got[0].Name)
	assert.JSONEq(t, `{"seq":1}`, string(got[0].Data))

	assert.Equal(t, events.GeometryChanged, got[1].Name)
	payload, err := events.DecodeAs[events.GeometryChangedEvent](got[1])
	require.NoError(t, err)
	assert.Equal(t, uint64(2), payload.Seq)
}

func TestReadEventsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan events.Event)
	err := readEvents(ctx, strings.NewReader("data:{}\n\n"), out)
	assert.ErrorIs(t, err, context.Canceled)
}
