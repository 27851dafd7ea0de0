package repository

import (
	"context"
	"errors"
	"fmt"

	"cotecsa-backend/internal/data/entity"
	apperrors "cotecsa-backend/internal/errors"
	"cotecsa-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	CountByRole(ctx context.Context, role entity.UserRole) (int64, error)
	MarkVerified(ctx context.Context, id int64) error
	ChangeRoleGuarded(ctx context.Context, id int64, role entity.UserRole) error
	DeleteGuarded(ctx context.Context, id int64) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

const userColumns = `id, full_name, email, phone, password_hash, role,
		       verified, verification_code, created_at, updated_at`

// Create inserts a new user record. A unique-constraint violation on email
// maps to ErrDuplicateEmail, same error kind as the service's pre-check, so
// the lookup-then-insert race still surfaces as a duplicate.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (full_name, email, phone, password_hash, role,
		                   verified, verification_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := ur.db.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.Verified,
		user.VerificationCode,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateEmail
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, id))
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, email))
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		err := rows.Scan(
			&user.ID,
			&user.FullName,
			&user.Email,
			&user.Phone,
			&user.PasswordHash,
			&user.Role,
			&user.Verified,
			&user.VerificationCode,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`

	var count int64
	err := ur.db.QueryRow(ctx, query, role).Scan(&count)
	if err != nil {
		ur.log.Error("Failed to count users by role",
			zap.Error(err),
			zap.String("role", string(role)),
		)
		return 0, fmt.Errorf("count users by role %s: %w", role, err)
	}

	return count, nil
}

// MarkVerified flips the account to verified and clears the pending code in
// one statement. The code is never reused after this.
func (ur *userRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET verified = TRUE, verification_code = NULL, updated_at = NOW()
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to mark user verified",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return fmt.Errorf("mark user %d verified: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// ChangeRoleGuarded updates a user's role inside a transaction that locks the
// target row and, for a demotion, every other admin row. The locks serialize
// concurrent demotions so two requests cannot both observe "2 admins" and
// leave zero behind.
func (ur *userRepository) ChangeRoleGuarded(ctx context.Context, id int64, role entity.UserRole) error {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin change role tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := ur.lockUser(ctx, tx, id)
	if err != nil {
		return err
	}

	// The guard only applies to a demotion of an admin; a no-op
	// admin -> admin change always succeeds.
	if current == entity.RoleAdmin && role != entity.RoleAdmin {
		others, err := ur.lockOtherAdmins(ctx, tx, id)
		if err != nil {
			return err
		}
		if others == 0 {
			return apperrors.ErrLastAdmin
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`,
		id, role,
	); err != nil {
		ur.log.Error("Failed to update role",
			zap.Error(err),
			zap.Int64("user_id", id),
			zap.String("role", string(role)),
		)
		return fmt.Errorf("update role for user %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit change role tx: %w", err)
	}

	return nil
}

// DeleteGuarded removes a user under the same admin guard as
// ChangeRoleGuarded.
func (ur *userRepository) DeleteGuarded(ctx context.Context, id int64) error {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := ur.lockUser(ctx, tx, id)
	if err != nil {
		return err
	}

	if current == entity.RoleAdmin {
		others, err := ur.lockOtherAdmins(ctx, tx, id)
		if err != nil {
			return err
		}
		if others == 0 {
			return apperrors.ErrLastAdmin
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}

	ur.log.Info("User deleted", zap.Int64("user_id", id))
	return nil
}

// lockUser takes a row lock on the target and returns its current role.
func (ur *userRepository) lockUser(ctx context.Context, tx pgx.Tx, id int64) (entity.UserRole, error) {
	var role entity.UserRole
	err := tx.QueryRow(ctx,
		`SELECT role FROM users WHERE id = $1 FOR UPDATE`, id,
	).Scan(&role)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.ErrUserNotFound
	}
	if err != nil {
		ur.log.Error("Failed to lock user row",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return "", fmt.Errorf("lock user %d: %w", id, err)
	}

	return role, nil
}

// lockOtherAdmins locks every admin row except the target and returns how
// many there are. Re-evaluation after a lock wait means a concurrently
// demoted admin no longer counts.
func (ur *userRepository) lockOtherAdmins(ctx context.Context, tx pgx.Tx, id int64) (int, error) {
	rows, err := tx.Query(ctx,
		`SELECT id FROM users WHERE role = $1 AND id <> $2 FOR UPDATE`,
		entity.RoleAdmin, id,
	)
	if err != nil {
		ur.log.Error("Failed to lock admin rows", zap.Error(err))
		return 0, fmt.Errorf("lock admin rows: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var adminID int64
		if err := rows.Scan(&adminID); err != nil {
			return 0, fmt.Errorf("scan admin row: %w", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate admin rows: %w", err)
	}

	return count, nil
}

// scanOne scans a single user row; no rows is not an error, it returns nil.
func (ur *userRepository) scanOne(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.Verified,
		&user.VerificationCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
