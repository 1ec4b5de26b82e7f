package sse

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublicaSoloALaObra(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := h.Register("obra-a")
	b := h.Register("obra-b")

	h.Publish("obra-a", "dashboard_updated", []byte(`{"obra_id":"obra-a"}`))

	require.Len(t, a.Events, 1)
	ev := <-a.Events
	assert.Equal(t, "dashboard_updated", ev.Type)
	assert.JSONEq(t, `{"obra_id":"obra-a"}`, ev.Data)
	assert.Empty(t, b.Events)
	assert.Equal(t, 1, h.Clients("obra-a"))
}

func TestHub_BufferLlenoNoBloquea(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := h.Register("obra")
	for i := 0; i < clientBuffer+5; i++ {
		h.Publish("obra", "dashboard_updated", nil)
	}
	assert.Len(t, c.Events, clientBuffer)
}

func TestHub_UnregisterCierraCanal(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := h.Register("obra")
	h.Unregister(c.ID)
	h.Unregister(c.ID) // idempotente

	_, open := <-c.Events
	assert.False(t, open)
	assert.Equal(t, 0, h.Clients("obra"))
}
