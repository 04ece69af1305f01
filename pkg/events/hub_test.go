package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrdcal/geomodel/pkg/model"
)

func TestPublishFansOut(t *testing.T) {
	h := NewEventHub(4)
	a := h.Subscribe()
	b := h.Subscribe()
	require.Equal(t, 2, h.SubscriberCount())

	d := 0.2
	h.Publish(GeometryChanged, GeometryChangedEvent{Seq: 3, Geometry: model.Snapshot{Distance: &d}})

	for _, ch := range []chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, GeometryChanged, ev.Name)
		payload, err := DecodeAs[GeometryChangedEvent](ev)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), payload.Seq)
		require.NotNil(t, payload.Geometry.Distance)
		assert.Equal(t, 0.2, *payload.Geometry.Distance)
		assert.Nil(t, payload.Geometry.Poni1)
	}
}

func TestPublishDropsForSlowSubscriber(t *testing.T) {
	h := NewEventHub(1)
	ch := h.Subscribe()

	h.Publish(GeometryChanged, GeometryChangedEvent{Seq: 1})
	h.Publish(GeometryChanged, GeometryChangedEvent{Seq: 2})

	ev := <-ch
	payload, err := DecodeAs[GeometryChangedEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), payload.Seq)
	assert.Empty(t, ch)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewEventHub(0)
	ch := h.Subscribe()
	h.Unsubscribe(ch)
	h.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount())

	// publishing with no subscribers is a no-op
	h.Publish(GeometryChanged, GeometryChangedEvent{})
}

func TestNilHubPublish(t *testing.T) {
	var h *EventHub
	assert.NotPanics(t, func() { h.Publish(GeometryChanged, nil) })
}

func TestDecodeAsEmpty(t *testing.T) {
	payload, err := DecodeAs[GeometryChangedEvent](Event{Name: GeometryChanged})
	require.NoError(t, err)
	assert.Equal(t, GeometryChangedEvent{}, payload)

	_, err = DecodeAs[GeometryChangedEvent](Event{Data: []byte("{")})
	assert.Error(t, err)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	h := NewEventHub(1)
	ch := h.Subscribe()

	h.Close()
	h.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount())

	// unsubscribing a closed subscription must not close it twice
	assert.NotPanics(t, func() { h.Unsubscribe(ch) })

	late := h.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscriptions after Close are already closed")

	assert.NotPanics(t, func() { h.Publish(GeometryChanged, GeometryChangedEvent{}) })
}
