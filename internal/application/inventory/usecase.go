// Package inventory contiene los comandos de almacén de una obra (entradas,
// salidas y requerimientos) y la exportación del kardex.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-obra-api/internal/application/dto"
	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
	"github.com/jhoicas/almacen-obra-api/internal/domain/repository"
	"github.com/jhoicas/almacen-obra-api/internal/domain/stats"
)

const exportDateLayout = "2006-01-02 15:04"

// StockUseCase registra movimientos y requerimientos. El stock y el kardex los
// actualizan los procedimientos de la base de forma atómica; aquí solo se valida
// la entrada. El tablero se entera por la notificación de cambios.
type StockUseCase struct {
	commands  repository.StockCommandRepository
	movements repository.MovementRepository
	catalog   CatalogReader
	sheet     MovementSheetWriter
	log       zerolog.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	commands repository.StockCommandRepository,
	movements repository.MovementRepository,
	catalog CatalogReader,
	sheet MovementSheetWriter,
	log zerolog.Logger,
) *StockUseCase {
	return &StockUseCase{
		commands:  commands,
		movements: movements,
		catalog:   catalog,
		sheet:     sheet,
		log:       log.With().Str("component", "stock").Logger(),
	}
}

// RegisterMovement valida y registra una ENTRADA o SALIDA.
func (uc *StockUseCase) RegisterMovement(ctx context.Context, obraID, userID string, in dto.RegisterMovementRequest) (*dto.CreatedResponse, error) {
	if strings.TrimSpace(obraID) == "" {
		return nil, domain.ErrInvalidInput
	}
	typ := strings.ToUpper(strings.TrimSpace(in.Type))
	if typ != entity.MovementEntrada && typ != entity.MovementSalida {
		return nil, fmt.Errorf("tipo de movimiento %q: %w", in.Type, domain.ErrInvalidInput)
	}
	item, err := toItemRef(in.Item)
	if err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("cantidad debe ser mayor a cero: %w", domain.ErrInvalidInput)
	}
	if in.RequisitionID != "" && typ != entity.MovementSalida {
		return nil, fmt.Errorf("solo una salida atiende requerimientos: %w", domain.ErrInvalidInput)
	}

	id, err := uc.commands.RegisterMovement(ctx, repository.MovementCommand{
		ObraID:        obraID,
		Type:          typ,
		Item:          item,
		Quantity:      in.Quantity,
		DocumentRef:   strings.TrimSpace(in.DocumentRef),
		RequisitionID: in.RequisitionID,
		CreatedBy:     userID,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("obra_id", obraID).Str("tipo", typ).Str("item", item.Key()).Str("id", id).Msg("movimiento registrado")
	return &dto.CreatedResponse{ID: id}, nil
}

// CreateRequisition valida y crea un requerimiento con sus líneas.
func (uc *StockUseCase) CreateRequisition(ctx context.Context, obraID string, in dto.CreateRequisitionRequest) (*dto.CreatedResponse, error) {
	requester := strings.TrimSpace(in.Requester)
	if strings.TrimSpace(obraID) == "" || requester == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]repository.RequisitionLineCommand, 0, len(in.Lines))
	seen := make(map[string]bool, len(in.Lines))
	for i, l := range in.Lines {
		item, err := toItemRef(l.Item)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("línea %d: cantidad debe ser mayor a cero: %w", i+1, domain.ErrInvalidInput)
		}
		if seen[item.Key()] {
			return nil, fmt.Errorf("línea %d: ítem repetido: %w", i+1, domain.ErrInvalidInput)
		}
		seen[item.Key()] = true
		lines = append(lines, repository.RequisitionLineCommand{
			Item:        item,
			Quantity:    l.Quantity,
			Description: strings.TrimSpace(l.Description),
		})
	}

	id, err := uc.commands.CreateRequisition(ctx, repository.RequisitionCommand{
		ObraID:    obraID,
		Requester: requester,
		Lines:     lines,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("obra_id", obraID).Int("lineas", len(lines)).Str("id", id).Msg("requerimiento creado")
	return &dto.CreatedResponse{ID: id}, nil
}

// ExportMovements genera la planilla del kardex completo de la obra.
func (uc *StockUseCase) ExportMovements(ctx context.Context, obraID string) ([]byte, error) {
	if strings.TrimSpace(obraID) == "" {
		return nil, domain.ErrInvalidInput
	}
	movs, err := uc.movements.ListByObra(ctx, obraID)
	if err != nil {
		return nil, fmt.Errorf("exportar kardex: %w", err)
	}
	items, err := uc.catalog.Items(ctx, obraID, false)
	if err != nil {
		return nil, fmt.Errorf("exportar kardex: %w", err)
	}
	names := stats.NewNames(items)

	rows := make([]dto.MovementRow, 0, len(movs))
	for _, m := range movs {
		rows = append(rows, dto.MovementRow{
			Date:        m.CreatedAt.Format(exportDateLayout),
			Type:        m.Type,
			ItemKind:    string(m.Item.Kind),
			ItemName:    names.Of(m.Item),
			Quantity:    m.Quantity,
			DocumentRef: m.DocumentRef,
		})
	}
	return uc.sheet.WriteMovements(obraID, rows)
}

func toItemRef(in dto.ItemRefRequest) (entity.ItemRef, error) {
	kind, ok := entity.ParseItemKind(in.Kind)
	id := strings.TrimSpace(in.ID)
	if !ok || id == "" {
		return entity.ItemRef{}, fmt.Errorf("ítem %s/%s: %w", in.Kind, in.ID, domain.ErrInvalidInput)
	}
	return entity.ItemRef{Kind: kind, ID: id}, nil
}
