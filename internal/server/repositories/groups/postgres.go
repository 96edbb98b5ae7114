package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/dbx"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, group *models.Group) (*models.Group, error) {

	query :=
		`INSERT INTO groups (name)
		 VALUES ($1)
		 RETURNING group_id, created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, group.Name).
		Scan(&group.ID, &group.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return group, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {

	query := `SELECT group_id, name, created_at FROM groups WHERE group_id = $1`

	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return group, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Group, error) {

	query := `SELECT group_id, name, created_at FROM groups ORDER BY group_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
