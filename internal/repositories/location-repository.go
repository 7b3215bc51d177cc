package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"allocation-system/internal/entities"
	apperrors "allocation-system/pkg/errors"
)

type LocationRepositoryInterface interface {
	FindLocation(ctx context.Context, id uint64) (*entities.Location, error)
}

type LocationRepository struct {
	storage *pgxpool.Pool
}

func NewLocationRepository(storage *pgxpool.Pool) LocationRepositoryInterface {
	return &LocationRepository{storage: storage}
}

func (r *LocationRepository) FindLocation(ctx context.Context, id uint64) (*entities.Location, error) {
	var loc entities.Location
	err := r.storage.QueryRow(ctx, `SELECT id, name FROM locations WHERE id = $1`, id).
		Scan(&loc.ID, &loc.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}
