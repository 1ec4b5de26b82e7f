package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem nombre visible de un ítem (material, equipo o EPP) usado para
// etiquetar las estadísticas.
type CatalogItem struct {
	Item     ItemRef
	Name     string
	Unit     string
	Category string
}

// Material material del catálogo general.
type Material struct {
	ID         string
	Code       string // código interno único
	Name       string
	Unit       string // und, kg, m3, bolsa...
	CategoryID string
	MinStock   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Requester solicitante habilitado para emitir requerimientos en una obra.
type Requester struct {
	ID        string
	ObraID    string
	Name      string
	Area      string // oficina técnica, producción, seguridad...
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
