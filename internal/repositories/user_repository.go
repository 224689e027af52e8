package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type UserRepository struct {
	DB *sql.DB
}

// GetByEmail returns the user plus the stored password hash for login checks.
func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone,''), password_hash, role, created_at
		FROM users
		WHERE email=? LIMIT 1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &hash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, "", err
	}
	return u, hash, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone,''), role, created_at
		FROM users
		WHERE id=? LIMIT 1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, err
	}
	return u, nil
}

// RoleOf is the small lookup used by assignment checks.
func (r UserRepository) RoleOf(ctx context.Context, id int64) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx, `SELECT role FROM users WHERE id=? LIMIT 1`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.NotFoundError{Resource: "user"}
		}
		return "", err
	}
	return role, nil
}

// Create inserts a customer account. Duplicate email surfaces as Conflict.
func (r UserRepository) Create(ctx context.Context, name, email, phone, passwordHash, role string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		name, email, phone, passwordHash, role)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}
