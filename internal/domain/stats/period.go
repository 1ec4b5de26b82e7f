package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/almacen-obra-api/internal/domain"
)

// Period ventana de análisis seleccionada por el usuario: últimos N días o todo el
// historial (days == 0).
type Period struct {
	days int
}

var (
	Period7   = Period{days: 7}
	Period30  = Period{days: 30}
	Period90  = Period{days: 90}
	PeriodAll = Period{}
)

// DefaultPeriod ventana usada cuando no se indica ninguna.
var DefaultPeriod = Period30

// ParsePeriod interpreta "7", "30", "90" o "all". Vacío devuelve DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultPeriod, nil
	case "all", "todo":
		return PeriodAll, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("período %q: %w", s, domain.ErrInvalidInput)
	}
	switch n {
	case 7:
		return Period7, nil
	case 30:
		return Period30, nil
	case 90:
		return Period90, nil
	}
	return Period{}, fmt.Errorf("período %q no soportado (7, 30, 90, all): %w", s, domain.ErrInvalidInput)
}

// Days número de días de la ventana; 0 para todo el historial.
func (p Period) Days() int { return p.days }

// String forma textual aceptada por ParsePeriod.
func (p Period) String() string {
	if p.days == 0 {
		return "all"
	}
	return strconv.Itoa(p.days)
}

// Cutoff instante de corte (now − N días calendario). false si no hay corte.
func (p Period) Cutoff(now time.Time) (time.Time, bool) {
	if p.days == 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -p.days), true
}

// Contains indica si t cae dentro de la ventana (t ≥ corte).
func (p Period) Contains(t, now time.Time) bool {
	cutoff, ok := p.Cutoff(now)
	if !ok {
		return true
	}
	return !t.Before(cutoff)
}
