package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rokibulparves/sobol/internal/config"
)

type Storage struct {
	DB *pgxpool.Pool
}

func InitDB(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	dbpool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return &Storage{DB: dbpool}, nil
}

func (s *Storage) Close() {
	s.DB.Close()
}
