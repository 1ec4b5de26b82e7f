package analytics_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-obra-api/internal/application/analytics"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
)

func TestLive_CargaLentaNoPisaALaMasNueva(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	load := func(_ context.Context, obraID string, _ bool) (*stats.Dataset, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return &stats.Dataset{ObraID: "vieja"}, nil
		}
		return &stats.Dataset{ObraID: "nueva"}, nil
	}
	live := analytics.NewLive("obra-1", load, nil, zerolog.Nop())

	type result struct {
		st      analytics.State
		applied bool
	}
	slow := make(chan result, 1)
	go func() {
		st, applied := live.Reload(context.Background(), false)
		slow <- result{st, applied}
	}()
	<-started

	st, applied := live.Reload(context.Background(), false)
	require.True(t, applied)
	assert.Equal(t, "nueva", st.Dataset.ObraID)
	assert.Equal(t, uint64(2), st.Generation)

	close(release)
	select {
	case r := <-slow:
		assert.False(t, r.applied, "la carga vieja se descarta")
		assert.Equal(t, "nueva", r.st.Dataset.ObraID)
	case <-time.After(2 * time.Second):
		t.Fatal("la carga lenta no terminó")
	}
	assert.Equal(t, "nueva", live.Current().Dataset.ObraID)
}

func TestLive_FalloLimpiaDataset(t *testing.T) {
	fail := false
	load := func(context.Context, string, bool) (*stats.Dataset, error) {
		if fail {
			return nil, &analytics.IngestionError{ObraID: "obra-1", Source: analytics.SourceMovements, Err: errors.New("timeout")}
		}
		return &stats.Dataset{ObraID: "obra-1"}, nil
	}
	var applied []analytics.State
	live := analytics.NewLive("obra-1", load, func(s analytics.State) { applied = append(applied, s) }, zerolog.Nop())

	assert.False(t, live.Current().Loaded())
	_, _ = live.Reload(context.Background(), false)
	require.NotNil(t, live.Current().Dataset)

	fail = true
	st, ok := live.Reload(context.Background(), false)
	require.True(t, ok)
	assert.Nil(t, st.Dataset, "sin datos parciales ni arrastrados")
	assert.ErrorIs(t, st.Err, domain.ErrIngestion)
	require.Len(t, applied, 2)
	assert.Equal(t, "obra-1", applied[1].ObraID)
}

func TestLive_DescartadaEsperaLaGeneracionNueva(t *testing.T) {
	started := make(chan struct{}, 2)
	releaseFirst := make(chan struct{})
	releaseSecond := make(chan struct{})
	var calls atomic.Int32

	load := func(_ context.Context, _ string, _ bool) (*stats.Dataset, error) {
		n := calls.Add(1)
		started <- struct{}{}
		if n == 1 {
			<-releaseFirst
			return &stats.Dataset{ObraID: "vieja"}, nil
		}
		<-releaseSecond
		return &stats.Dataset{ObraID: "nueva"}, nil
	}
	live := analytics.NewLive("obra-1", load, nil, zerolog.Nop())

	type result struct {
		st      analytics.State
		applied bool
	}
	first := make(chan result, 1)
	go func() {
		st, applied := live.Reload(context.Background(), false)
		first <- result{st, applied}
	}()
	<-started
	go func() { _, _ = live.Reload(context.Background(), false) }()
	<-started

	close(releaseFirst)
	select {
	case <-first:
		t.Fatal("la carga descartada no debe devolver un estado sin aplicar")
	case <-time.After(100 * time.Millisecond):
	}

	close(releaseSecond)
	select {
	case r := <-first:
		assert.False(t, r.applied)
		require.True(t, r.st.Loaded())
		assert.Equal(t, "nueva", r.st.Dataset.ObraID)
		assert.Equal(t, uint64(2), r.st.Generation)
	case <-time.After(2 * time.Second):
		t.Fatal("la carga descartada no terminó")
	}
}

func TestLive_DescartadaRespetaElContexto(t *testing.T) {
	started := make(chan struct{}, 2)
	releaseFirst := make(chan struct{})
	releaseSecond := make(chan struct{})
	t.Cleanup(func() { close(releaseSecond) })
	var calls atomic.Int32

	load := func(_ context.Context, obraID string, _ bool) (*stats.Dataset, error) {
		n := calls.Add(1)
		started <- struct{}{}
		if n == 1 {
			<-releaseFirst
		} else {
			<-releaseSecond
		}
		return &stats.Dataset{ObraID: obraID}, nil
	}
	live := analytics.NewLive("obra-1", load, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	done := make(chan analytics.State, 1)
	go func() {
		st, _ := live.Reload(ctx, false)
		done <- st
	}()
	<-started
	go func() { _, _ = live.Reload(context.Background(), false) }()
	<-started
	close(releaseFirst)

	select {
	case st := <-done:
		assert.False(t, st.Loaded())
		assert.Nil(t, st.Dataset)
	case <-time.After(2 * time.Second):
		t.Fatal("la espera no respetó el contexto")
	}
}

func TestLive_AplicaEnOrdenDeGeneracion(t *testing.T) {
	var calls atomic.Int32
	load := func(context.Context, string, bool) (*stats.Dataset, error) {
		time.Sleep(time.Duration(calls.Add(1)%3) * time.Millisecond)
		return &stats.Dataset{ObraID: "obra-1"}, nil
	}
	var generations []uint64
	live := analytics.NewLive("obra-1", load, func(s analytics.State) {
		generations = append(generations, s.Generation)
	}, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = live.Reload(context.Background(), false)
		}()
	}
	wg.Wait()

	require.NotEmpty(t, generations)
	for i := 1; i < len(generations); i++ {
		assert.Greater(t, generations[i], generations[i-1])
	}
	assert.Equal(t, uint64(20), live.Current().Generation)
}
