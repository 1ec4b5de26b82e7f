package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

const topConsumedCap = 10

var monthAbbr = [...]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// WeekFlow entradas y salidas de una semana ISO.
type WeekFlow struct {
	Key      string // "2026-W07", ordena cronológicamente
	Label    string // "S7 Feb"
	Entradas decimal.Decimal
	Salidas  decimal.Decimal
}

// ConsumedItem entradas y salidas de un ítem en la ventana.
type ConsumedItem struct {
	Name     string
	Entradas decimal.Decimal
	Salidas  decimal.Decimal
}

// weekKey clave y etiqueta de la semana ISO de t. El mes de la etiqueta es el del
// lunes de esa semana.
func weekKey(t time.Time) (key, label string) {
	year, week := t.ISOWeek()
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return fmt.Sprintf("%04d-W%02d", year, week),
		fmt.Sprintf("S%d %s", week, monthAbbr[monday.Month()-1])
}

// WeeklyFlow agrupa los movimientos de la ventana por semana ISO.
func WeeklyFlow(movements []entity.Movement, p Period, now time.Time) []WeekFlow {
	byWeek := make(map[string]*WeekFlow)
	for _, m := range movements {
		if !p.Contains(m.CreatedAt, now) || m.CreatedAt.IsZero() {
			continue
		}
		key, label := weekKey(m.CreatedAt)
		w, ok := byWeek[key]
		if !ok {
			w = &WeekFlow{Key: key, Label: label}
			byWeek[key] = w
		}
		switch {
		case m.IsEntrada():
			w.Entradas = w.Entradas.Add(qty(m.Quantity))
		case m.IsSalida():
			w.Salidas = w.Salidas.Add(qty(m.Quantity))
		}
	}

	weeks := make([]WeekFlow, 0, len(byWeek))
	for _, w := range byWeek {
		weeks = append(weeks, *w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Key < weeks[j].Key })
	return weeks
}

// TopConsumed ítems con salidas en la ventana, agrupados por nombre visible, de
// mayor a menor salida. Máximo 10.
func TopConsumed(movements []entity.Movement, names Names, p Period, now time.Time) []ConsumedItem {
	byName := make(map[string]*ConsumedItem)
	var order []string
	for _, m := range movements {
		if !p.Contains(m.CreatedAt, now) {
			continue
		}
		name := names.Of(m.Item)
		c, ok := byName[name]
		if !ok {
			c = &ConsumedItem{Name: name}
			byName[name] = c
			order = append(order, name)
		}
		switch {
		case m.IsEntrada():
			c.Entradas = c.Entradas.Add(qty(m.Quantity))
		case m.IsSalida():
			c.Salidas = c.Salidas.Add(qty(m.Quantity))
		}
	}

	items := []ConsumedItem{}
	for _, name := range order {
		if c := byName[name]; c.Salidas.IsPositive() {
			items = append(items, *c)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Salidas.GreaterThan(items[j].Salidas)
	})
	if len(items) > topConsumedCap {
		items = items[:topConsumedCap]
	}
	return items
}
