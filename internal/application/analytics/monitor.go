package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

// Eventos emitidos a los clientes suscritos al tablero de una obra.
const (
	EventDashboardUpdated = "dashboard_updated"
	EventDashboardError   = "dashboard_error"
)

// EventPublisher difunde eventos a los clientes de una obra (SSE).
type EventPublisher interface {
	Publish(obraID, event string, data []byte)
}

// DashboardEvent payload de los eventos del tablero.
type DashboardEvent struct {
	ObraID     string    `json:"obra_id"`
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type site struct {
	live        *Live
	firstLoad   sync.Once
	unsubscribe func()
}

// Monitor mantiene un dataset vivo por obra consultada. Se suscribe a los avisos
// de cambio de la base y recarga en segundo plano; cada estado aplicado se difunde
// a los clientes conectados.
type Monitor struct {
	ctx       context.Context
	cancel    context.CancelFunc
	load      LoadFunc
	notifier  repository.ChangeNotifier
	publisher EventPublisher
	timeout   time.Duration
	log       zerolog.Logger

	mu    sync.Mutex
	sites map[string]*site

	// bgMu sincroniza wg.Add con Close
	bgMu   sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewMonitor construye el monitor. ctx acota la vida de las suscripciones y de las
// recargas en segundo plano, que además terminan con Close; notifier y publisher
// pueden ser nil.
func NewMonitor(
	ctx context.Context,
	load LoadFunc,
	notifier repository.ChangeNotifier,
	publisher EventPublisher,
	timeout time.Duration,
	log zerolog.Logger,
) *Monitor {
	ctx, cancel := context.WithCancel(ctx)
	return &Monitor{
		ctx:       ctx,
		cancel:    cancel,
		load:      load,
		notifier:  notifier,
		publisher: publisher,
		timeout:   timeout,
		log:       log.With().Str("component", "monitor").Logger(),
		sites:     make(map[string]*site),
	}
}

// State devuelve el estado vigente de la obra. La primera consulta de una obra
// carga sus datos de forma síncrona y activa la suscripción a cambios. Si el
// último estado es un error se reintenta la carga.
func (m *Monitor) State(ctx context.Context, obraID string) State {
	s := m.site(obraID)
	s.firstLoad.Do(func() {
		m.reload(ctx, s, false)
	})
	if st := s.live.Current(); st.Loaded() && st.Err == nil {
		return st
	}
	st, _ := m.reload(ctx, s, false)
	return st
}

// Reload recarga la obra de inmediato y devuelve el estado resultante.
func (m *Monitor) Reload(ctx context.Context, obraID string, forceCatalog bool) State {
	st, _ := m.reload(ctx, m.site(obraID), forceCatalog)
	return st
}

// Close cancela las suscripciones y las recargas en segundo plano y espera a que
// terminen. Los avisos posteriores se ignoran.
func (m *Monitor) Close() {
	m.bgMu.Lock()
	m.closed = true
	m.bgMu.Unlock()
	m.cancel()

	m.mu.Lock()
	sites := m.sites
	m.sites = make(map[string]*site)
	m.mu.Unlock()

	for _, s := range sites {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	}
	m.wg.Wait()
}

func (m *Monitor) site(obraID string) *site {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sites[obraID]; ok {
		return s
	}
	s := &site{}
	s.live = NewLive(obraID, m.load, m.broadcast, m.log)
	if m.notifier != nil {
		unsubscribe, err := m.notifier.Subscribe(m.ctx, obraID, func() { m.background(s) })
		if err != nil {
			// sin suscripción el tablero sigue sirviendo y se actualiza con refresh manual
			m.log.Warn().Err(err).Str("obra_id", obraID).Msg("suscripción a cambios fallida")
		} else {
			s.unsubscribe = unsubscribe
		}
	}
	m.sites[obraID] = s
	return s
}

func (m *Monitor) reload(ctx context.Context, s *site, forceCatalog bool) (State, bool) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return s.live.Reload(ctx, forceCatalog)
}

// background recarga tras un aviso de cambio.
func (m *Monitor) background(s *site) {
	m.bgMu.Lock()
	defer m.bgMu.Unlock()
	if m.closed {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.reload(m.ctx, s, false)
	}()
}

func (m *Monitor) broadcast(st State) {
	if m.publisher == nil {
		return
	}
	name, data, err := EncodeEvent(st)
	if err != nil {
		m.log.Error().Err(err).Msg("serializar evento del tablero")
		return
	}
	m.publisher.Publish(st.ObraID, name, data)
}

// EncodeEvent nombre y payload JSON del evento que corresponde al estado.
func EncodeEvent(st State) (string, []byte, error) {
	ev := DashboardEvent{ObraID: st.ObraID, Generation: st.Generation}
	name := EventDashboardUpdated
	if st.Err != nil {
		name = EventDashboardError
		ev.Error = st.Err.Error()
	}
	if st.Dataset != nil {
		ev.LoadedAt = st.Dataset.LoadedAt
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}
