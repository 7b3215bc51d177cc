package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"allocation-system/internal/dto"
	apperrors "allocation-system/pkg/errors"
	"allocation-system/pkg/types"
)

// Колонки, по которым разрешены фильтрация и сортировка списка.
var equipmentAllowedColumns = map[string]string{
	"name":              "name",
	"installation_type": "installation_type",
	"total_quantity":    "total_quantity",
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	builder := sq.Select("id", "name", "total_quantity", "installation_type", "installation_quantity", "created_at", "updated_at").
		From("equipments").
		PlaceholderFormat(sq.Dollar)

	countBuilder := sq.Select("COUNT(*)").From("equipments").PlaceholderFormat(sq.Dollar)

	for jsonField, val := range filter.Filter {
		dbCol, ok := equipmentAllowedColumns[jsonField]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{dbCol: val})
		countBuilder = countBuilder.Where(sq.Eq{dbCol: val})
	}

	if filter.Search != "" {
		like := sq.ILike{"name": "%" + filter.Search + "%"}
		builder = builder.Where(like)
		countBuilder = countBuilder.Where(like)
	}

	ordered := false
	for jsonField, dir := range filter.Sort {
		dbCol, ok := equipmentAllowedColumns[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if dir == "desc" || dir == "DESC" {
			sqlDir = "DESC"
		}
		builder = builder.OrderBy(dbCol + " " + sqlDir)
		ordered = true
	}
	if !ordered {
		builder = builder.OrderBy("id ASC")
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.EquipmentDTO, 0)
	for rows.Next() {
		var item dto.EquipmentDTO
		var createdAt, updatedAt time.Time
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.TotalQuantity,
			&item.InstallationType,
			&item.InstallationQuantity,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, 0, err
		}
		item.CreatedAt = createdAt.Format("2006-01-02, 15:04:05")
		item.UpdatedAt = updatedAt.Format("2006-01-02, 15:04:05")
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	var item dto.EquipmentDTO
	var createdAt, updatedAt time.Time

	err := r.storage.QueryRow(ctx, `
		SELECT id, name, total_quantity, installation_type, installation_quantity, created_at, updated_at
		FROM equipments
		WHERE id = $1`, id,
	).Scan(
		&item.ID,
		&item.Name,
		&item.TotalQuantity,
		&item.InstallationType,
		&item.InstallationQuantity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	item.CreatedAt = createdAt.Format("2006-01-02, 15:04:05")
	item.UpdatedAt = updatedAt.Format("2006-01-02, 15:04:05")
	return &item, nil
}
