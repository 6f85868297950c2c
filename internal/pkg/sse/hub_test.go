package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("u1")
	defer cancel()

	n := hub.Publish("u1", Event{Name: "notification", Data: "hello"})
	assert.Equal(t, 1, n)

	ev := <-ch
	assert.Equal(t, "notification", ev.Name)
	assert.Equal(t, "hello", ev.Data)

	assert.Equal(t, 0, hub.Publish("u2", Event{Name: "notification"}))
}

func TestHub_CancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("u1")
	assert.Equal(t, 1, hub.SubscriberCount("u1"))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("u1"))
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	hub.bufferSize = 1
	_, cancel := hub.Subscribe("u1")
	defer cancel()

	assert.Equal(t, 1, hub.Publish("u1", Event{Name: "a"}))
	assert.Equal(t, 0, hub.Publish("u1", Event{Name: "b"}))
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("u1")
	hub.Close()

	_, open := <-ch
	assert.False(t, open)
	cancel()

	late, _ := hub.Subscribe("u2")
	_, open = <-late
	assert.False(t, open)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Event{Name: "notification", Data: map[string]string{"id": "1"}}))
	assert.Equal(t, "event: notification\ndata: {\"id\":\"1\"}\n\n", buf.String())

	buf.Reset()
	require.NoError(t, Comment(&buf, "ping"))
	assert.Equal(t, ": ping\n\n", buf.String())
}
