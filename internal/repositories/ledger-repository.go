package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"allocation-system/internal/entities"
	apperrors "allocation-system/pkg/errors"
)

// LedgerRepositoryInterface — хранилище раскладки одного оборудования.
// ApplyDelta фиксирует все строки дельты в одной транзакции; частичных
// записей не бывает.
type LedgerRepositoryInterface interface {
	GetBreakdown(ctx context.Context, equipmentID uint64) (*entities.Breakdown, error)
	ApplyDelta(ctx context.Context, equipmentID uint64, delta *entities.LedgerDelta) (*entities.Breakdown, error)
	FindShowAllocation(ctx context.Context, allocationID uint64) (*entities.ShowAllocation, error)
}

type LedgerRepository struct {
	storage   *pgxpool.Pool
	txManager TxManagerInterface
	logger    *zap.Logger
}

func NewLedgerRepository(storage *pgxpool.Pool, txManager TxManagerInterface, logger *zap.Logger) LedgerRepositoryInterface {
	return &LedgerRepository{
		storage:   storage,
		txManager: txManager,
		logger:    logger,
	}
}

const equipmentFields = `id, name, total_quantity, installation_type, installation_quantity,
	installation_location_id, installation_location_name, installation_date, installation_notes,
	created_at, updated_at`

func scanEquipment(row pgx.Row) (*entities.EquipmentUnit, error) {
	var eq entities.EquipmentUnit
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&eq.ID,
		&eq.Name,
		&eq.TotalQuantity,
		&eq.InstallationType,
		&eq.InstallationQuantity,
		&eq.InstallationLocation.LocationID,
		&eq.InstallationLocation.LocationName,
		&eq.InstallationDate,
		&eq.InstallationNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	eq.CreatedAt = &createdAt
	eq.UpdatedAt = &updatedAt
	return &eq, nil
}

func (r *LedgerRepository) GetBreakdown(ctx context.Context, equipmentID uint64) (*entities.Breakdown, error) {
	return getBreakdown(ctx, r.storage, equipmentID, false)
}

// getBreakdown читает раскладку одним снимком. forUpdate=true блокирует
// строку оборудования до конца транзакции (граница сериализации в БД).
func getBreakdown(ctx context.Context, q querier, equipmentID uint64, forUpdate bool) (*entities.Breakdown, error) {
	query := `SELECT ` + equipmentFields + ` FROM equipments WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	eq, err := scanEquipment(q.QueryRow(ctx, query, equipmentID))
	if err != nil {
		return nil, err
	}

	breakdown := &entities.Breakdown{Equipment: *eq}

	locRows, err := q.Query(ctx, `
		SELECT id, equipment_id, location_id, location_name, quantity, status, notes
		FROM location_allocations
		WHERE equipment_id = $1
		ORDER BY id`, equipmentID)
	if err != nil {
		return nil, err
	}
	defer locRows.Close()
	for locRows.Next() {
		var loc entities.LocationAllocation
		if err := locRows.Scan(
			&loc.ID,
			&loc.EquipmentID,
			&loc.Location.LocationID,
			&loc.Location.LocationName,
			&loc.Quantity,
			&loc.Status,
			&loc.Notes,
		); err != nil {
			return nil, err
		}
		breakdown.Locations = append(breakdown.Locations, loc)
	}
	if err := locRows.Err(); err != nil {
		return nil, err
	}

	showRows, err := q.Query(ctx, `
		SELECT sa.id, sa.equipment_id, sa.show_id, sa.quantity_needed, sa.quantity_allocated,
		       sa.status, sa.notes, s.name, s.start_date, s.end_date
		FROM show_allocations sa
		LEFT JOIN shows s ON s.id = sa.show_id
		WHERE sa.equipment_id = $1
		ORDER BY sa.id`, equipmentID)
	if err != nil {
		return nil, err
	}
	defer showRows.Close()
	for showRows.Next() {
		var alloc entities.ShowAllocation
		var show entities.Show
		var showName *string
		if err := showRows.Scan(
			&alloc.ID,
			&alloc.EquipmentID,
			&alloc.ShowID,
			&alloc.QuantityNeeded,
			&alloc.QuantityAllocated,
			&alloc.Status,
			&alloc.Notes,
			&showName,
			&show.StartDate,
			&show.EndDate,
		); err != nil {
			return nil, err
		}
		if showName != nil {
			show.ID = alloc.ShowID
			show.Name = *showName
			alloc.Show = &show
		}
		breakdown.Shows = append(breakdown.Shows, alloc)
	}
	if err := showRows.Err(); err != nil {
		return nil, err
	}

	return breakdown, nil
}

func (r *LedgerRepository) ApplyDelta(ctx context.Context, equipmentID uint64, delta *entities.LedgerDelta) (*entities.Breakdown, error) {
	var committed *entities.Breakdown

	err := r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// Блокировка строки оборудования сериализует конкурентные дельты.
		if _, err := getBreakdown(ctx, tx, equipmentID, true); err != nil {
			return err
		}

		if delta.Equipment != nil {
			eq := delta.Equipment
			if _, err := tx.Exec(ctx, `
				UPDATE equipments
				SET total_quantity = $1, installation_type = $2, installation_quantity = $3,
				    installation_location_id = $4, installation_location_name = $5,
				    installation_date = $6, installation_notes = $7, updated_at = CURRENT_TIMESTAMP
				WHERE id = $8`,
				eq.TotalQuantity,
				eq.InstallationType,
				eq.InstallationQuantity,
				eq.InstallationLocation.LocationID,
				eq.InstallationLocation.LocationName,
				eq.InstallationDate,
				eq.InstallationNotes,
				equipmentID,
			); err != nil {
				return err
			}
		}

		for _, up := range delta.UpsertShows {
			if up.ID == 0 {
				if err := tx.QueryRow(ctx, `
					INSERT INTO show_allocations (equipment_id, show_id, quantity_needed, quantity_allocated, status, notes)
					VALUES ($1, $2, $3, $4, $5, $6)
					RETURNING id`,
					up.EquipmentID, up.ShowID, up.QuantityNeeded, up.QuantityAllocated, up.Status, up.Notes,
				).Scan(&up.ID); err != nil {
					return err
				}
			} else {
				tag, err := tx.Exec(ctx, `
					UPDATE show_allocations
					SET quantity_needed = $1, quantity_allocated = $2, status = $3, notes = $4, updated_at = CURRENT_TIMESTAMP
					WHERE id = $5`,
					up.QuantityNeeded, up.QuantityAllocated, up.Status, up.Notes, up.ID,
				)
				if err != nil {
					return err
				}
				if tag.RowsAffected() == 0 {
					return apperrors.ErrNotFound
				}
			}
		}

		for _, delID := range delta.DeleteShowIDs {
			tag, err := tx.Exec(ctx, `DELETE FROM show_allocations WHERE id = $1`, delID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return apperrors.ErrNotFound
			}
		}

		if delta.ReplaceLocations != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM location_allocations WHERE equipment_id = $1`, equipmentID); err != nil {
				return err
			}
			for _, loc := range *delta.ReplaceLocations {
				if _, err := tx.Exec(ctx, `
					INSERT INTO location_allocations (equipment_id, location_id, location_name, quantity, status, notes)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					equipmentID,
					loc.Location.LocationID,
					loc.Location.LocationName,
					loc.Quantity,
					loc.Status,
					loc.Notes,
				); err != nil {
					return err
				}
			}
		}

		// Снимок зафиксированного состояния возвращаем из той же транзакции.
		next, err := getBreakdown(ctx, tx, equipmentID, false)
		if err != nil {
			return err
		}
		committed = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("дельта леджера зафиксирована",
		zap.Uint64("equipment_id", equipmentID),
		zap.String("operation_id", delta.OperationID.String()),
	)
	return committed, nil
}

func (r *LedgerRepository) FindShowAllocation(ctx context.Context, allocationID uint64) (*entities.ShowAllocation, error) {
	var alloc entities.ShowAllocation
	err := r.storage.QueryRow(ctx, `
		SELECT id, equipment_id, show_id, quantity_needed, quantity_allocated, status, notes
		FROM show_allocations
		WHERE id = $1`, allocationID,
	).Scan(
		&alloc.ID,
		&alloc.EquipmentID,
		&alloc.ShowID,
		&alloc.QuantityNeeded,
		&alloc.QuantityAllocated,
		&alloc.Status,
		&alloc.Notes,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &alloc, nil
}
