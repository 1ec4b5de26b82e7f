package postgres

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
)

var _ repository.ChangeNotifier = (*Notifier)(nil)

// payloadAll payload que notifica a todas las obras (cambios de catálogo).
const payloadAll = "*"

// Notifier escucha el canal LISTEN/NOTIFY de cambios de inventario en una conexión
// dedicada del pool y reparte cada aviso a las suscripciones de la obra indicada
// en el payload. Los triggers de movimientos y requerimientos hacen
// pg_notify(canal, obra_id).
type Notifier struct {
	pool    *pgxpool.Pool
	channel string
	retry   time.Duration
	log     zerolog.Logger

	mu     sync.Mutex
	subs   map[string]map[uint64]func()
	nextID uint64
}

// NewNotifier construye el notificador. Run debe ejecutarse para recibir avisos.
func NewNotifier(pool *pgxpool.Pool, channel string, log zerolog.Logger) *Notifier {
	return &Notifier{
		pool:    pool,
		channel: channel,
		retry:   2 * time.Second,
		log:     log,
		subs:    map[string]map[uint64]func(){},
	}
}

// Subscribe registra onChange para la obra. La suscripción termina al cancelar ctx
// o al llamar a la función devuelta.
func (n *Notifier) Subscribe(ctx context.Context, obraID string, onChange func()) (func(), error) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	if n.subs[obraID] == nil {
		n.subs[obraID] = map[uint64]func(){}
	}
	n.subs[obraID][id] = onChange
	n.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	unsubscribe := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[obraID], id)
			if len(n.subs[obraID]) == 0 {
				delete(n.subs, obraID)
			}
			n.mu.Unlock()
			close(done)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-done:
		}
	}()
	return unsubscribe, nil
}

// Run mantiene la escucha hasta que ctx se cancele. Ante una caída de la conexión
// reintenta y, al reconectar, avisa a todas las obras porque pudo perder avisos.
func (n *Notifier) Run(ctx context.Context) {
	first := true
	for {
		err := n.listen(ctx, !first)
		if ctx.Err() != nil {
			return
		}
		first = false
		n.log.Warn().Err(err).Str("channel", n.channel).Msg("escucha de cambios interrumpida, reintentando")
		select {
		case <-ctx.Done():
			return
		case <-time.After(n.retry):
		}
	}
}

func (n *Notifier) listen(ctx context.Context, reconnected bool) error {
	conn, err := n.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if !conn.Conn().IsClosed() {
			uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_, _ = conn.Exec(uctx, "UNLISTEN *")
			cancel()
		}
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{n.channel}.Sanitize()); err != nil {
		return err
	}
	n.log.Info().Str("channel", n.channel).Msg("escuchando cambios de inventario")
	if reconnected {
		n.dispatch(payloadAll)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return err
		}
		n.dispatch(notification.Payload)
	}
}

// dispatch invoca las suscripciones de la obra del payload. Payload vacío o "*"
// alcanza a todas las obras suscritas.
func (n *Notifier) dispatch(payload string) {
	n.mu.Lock()
	var callbacks []func()
	if payload == "" || payload == payloadAll {
		for _, byID := range n.subs {
			for _, cb := range byID {
				callbacks = append(callbacks, cb)
			}
		}
	} else {
		for _, cb := range n.subs[payload] {
			callbacks = append(callbacks, cb)
		}
	}
	n.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}
