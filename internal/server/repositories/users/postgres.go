package users

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

const userColumns = `user_id, name, surname, username, password, phone_number, email,
	image_s3_path, is_blocked, role_name, group_id, created_at, modified_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, surname, username, password, phone_number, email,
		     image_s3_path, is_blocked, role_name, group_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING user_id, created_at, modified_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.Username, user.PasswordHash, user.PhoneNumber,
		user.Email, user.ImageS3Path, user.IsBlocked, user.RoleName, user.GroupID).
		Scan(&user.ID, &user.CreatedAt, &user.ModifiedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE username = $1 OR phone_number = $1 OR email = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, login))
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {

	query := `SELECT ` + userColumns + ` FROM users
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		   AND ($2 = 0 OR group_id = $2)
		 ORDER BY username
		 LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, filter.Name, filter.GroupID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := &ListResult{Users: []*models.User{}}
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Surname, &user.Username, &user.PasswordHash,
			&user.PhoneNumber, &user.Email, &user.ImageS3Path, &user.IsBlocked,
			&user.RoleName, &user.GroupID, &user.CreatedAt, &user.ModifiedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result.Users = append(result.Users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	countQuery := `SELECT count(*) FROM users
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		   AND ($2 = 0 OR group_id = $2)`

	if err := r.db.QueryRowContext(ctx, countQuery, filter.Name, filter.GroupID).
		Scan(&result.TotalCount); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {

	query :=
		`UPDATE users
		 SET name = $2, surname = $3, username = $4, phone_number = $5, email = $6,
		     image_s3_path = $7, is_blocked = $8, role_name = $9, group_id = $10,
		     modified_at = now()
		 WHERE user_id = $1
		 RETURNING modified_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Surname, user.Username, user.PhoneNumber, user.Email,
		user.ImageS3Path, user.IsBlocked, user.RoleName, user.GroupID).
		Scan(&user.ModifiedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {

	query :=
		`UPDATE users SET password = $2, modified_at = now()
		 WHERE user_id = $1
		 RETURNING user_id
		 `

	var updated string
	if err := r.db.QueryRowContext(ctx, query, id, passwordHash).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (string, error) {

	query :=
		`DELETE FROM users WHERE user_id = $1
		 RETURNING user_id
		 `

	var deleted string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return deleted, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Surname, &user.Username, &user.PasswordHash,
		&user.PhoneNumber, &user.Email, &user.ImageS3Path, &user.IsBlocked,
		&user.RoleName, &user.GroupID, &user.CreatedAt, &user.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
