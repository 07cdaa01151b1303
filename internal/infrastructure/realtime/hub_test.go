package realtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/ports"
	"github.com/jhoicas/caja-api/internal/infrastructure/realtime"
)

func TestHub_EntregaSoloALaEmpresa(t *testing.T) {
	h := realtime.NewHub()
	a, cancelA := h.Subscribe("c1")
	defer cancelA()
	b, cancelB := h.Subscribe("c2")
	defer cancelB()

	require.NoError(t, h.Publish(context.Background(), ports.Event{Type: ports.EventStockUpdate, CompanyID: "c1"}))

	select {
	case ev := <-a:
		assert.Equal(t, ports.EventStockUpdate, ev.Type)
	default:
		t.Fatal("c1 no recibió el evento")
	}
	select {
	case <-b:
		t.Fatal("c2 no debía recibir el evento")
	default:
	}
}

func TestHub_CancelarCierraElCanal(t *testing.T) {
	h := realtime.NewHub()
	ch, cancel := h.Subscribe("c1")
	assert.Equal(t, 1, h.Subscribers("c1"))

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers("c1"))
	assert.NoError(t, h.Publish(context.Background(), ports.Event{CompanyID: "c1"}))
}

// Un suscriptor que no lee no bloquea la publicación.
func TestHub_SuscriptorLentoNoBloquea(t *testing.T) {
	h := realtime.NewHub()
	_, cancel := h.Subscribe("c1")
	defer cancel()
	for i := 0; i < 500; i++ {
		require.NoError(t, h.Publish(context.Background(), ports.Event{CompanyID: "c1"}))
	}
}
