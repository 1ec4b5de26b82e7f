package analytics_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-obra-api/internal/application/analytics"
	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
)

func TestMonitor_CloseCancelaRecargasYIgnoraAvisos(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{}, 1)
	load := func(ctx context.Context, obraID string, _ bool) (*stats.Dataset, error) {
		if calls.Add(1) == 1 {
			return &stats.Dataset{ObraID: obraID}, nil
		}
		// la recarga en segundo plano solo termina al cancelarse
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	notifier := newFakeNotifier()
	monitor := analytics.NewMonitor(context.Background(), load, notifier, nil, time.Minute, zerolog.Nop())

	st := monitor.State(context.Background(), "obra-1")
	require.True(t, st.Loaded())

	notifier.notify("obra-1")
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("el aviso no lanzó la recarga")
	}

	closed := make(chan struct{})
	go func() {
		monitor.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close no canceló la recarga en curso")
	}

	notifier.notify("obra-1")
	assert.Equal(t, int32(2), calls.Load(), "tras Close los avisos no recargan")
	assert.True(t, notifier.cancelled["obra-1"])
}
