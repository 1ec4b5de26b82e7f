package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
)

// LoadFunc carga el dataset de una obra. forceCatalog ignora el catálogo cacheado.
type LoadFunc func(ctx context.Context, obraID string, forceCatalog bool) (*stats.Dataset, error)

// State dataset vigente de una obra. Tras una carga fallida Dataset es nil y Err
// contiene la causa; nunca se mezcla con datos de una carga anterior.
type State struct {
	ObraID     string
	Dataset    *stats.Dataset
	Err        error
	Generation uint64
	UpdatedAt  time.Time
}

// Loaded indica si ya terminó al menos una carga.
func (s State) Loaded() bool { return s.Generation > 0 }

// Live dataset de una obra que se recarga ante cambios.
//
// Cada recarga toma un número de generación; al terminar, su resultado solo se
// aplica si ninguna recarga posterior fue emitida mientras tanto. Así una carga
// lenta nunca pisa a una más nueva. Una recarga descartada espera a que se
// aplique una generación posterior antes de devolver el estado.
type Live struct {
	obraID  string
	load    LoadFunc
	onApply func(State)
	log     zerolog.Logger

	issued atomic.Uint64

	// applyMu ordena la aplicación y la difusión de cada generación
	applyMu sync.Mutex

	mu      sync.RWMutex
	state   State
	applied chan struct{} // se cierra y se reemplaza en cada aplicación
}

// NewLive crea el dataset vivo de una obra. onApply (opcional) recibe cada estado aplicado.
func NewLive(obraID string, load LoadFunc, onApply func(State), log zerolog.Logger) *Live {
	return &Live{
		obraID:  obraID,
		load:    load,
		onApply: onApply,
		log:     log.With().Str("obra_id", obraID).Logger(),
		applied: make(chan struct{}),
	}
}

// Current devuelve el último estado aplicado.
func (l *Live) Current() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Reload ejecuta una carga. Devuelve el estado vigente y si el resultado propio
// fue aplicado (false cuando otra recarga más nueva lo reemplazó). Si ctx termina
// antes de que se aplique una generación posterior, el estado devuelto puede no
// estar cargado (Loaded() == false).
func (l *Live) Reload(ctx context.Context, forceCatalog bool) (State, bool) {
	gen := l.issued.Add(1)
	ds, err := l.load(ctx, l.obraID, forceCatalog)

	l.applyMu.Lock()
	l.mu.Lock()
	if gen != l.issued.Load() {
		l.mu.Unlock()
		l.applyMu.Unlock()
		l.log.Debug().Uint64("generacion", gen).Msg("carga descartada, existe una más reciente")
		return l.waitNewer(ctx, gen), false
	}
	l.state = State{ObraID: l.obraID, Dataset: ds, Err: err, Generation: gen, UpdatedAt: time.Now()}
	if err != nil {
		l.state.Dataset = nil
	}
	applied := l.state
	close(l.applied)
	l.applied = make(chan struct{})
	l.mu.Unlock()

	if l.onApply != nil {
		l.onApply(applied)
	}
	l.applyMu.Unlock()
	return applied, true
}

// waitNewer espera a que se aplique una generación posterior a gen.
func (l *Live) waitNewer(ctx context.Context, gen uint64) State {
	for {
		l.mu.RLock()
		st, ch := l.state, l.applied
		l.mu.RUnlock()
		if st.Generation > gen {
			return st
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return l.Current()
		}
	}
}
