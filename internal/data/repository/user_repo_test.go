package repository

import (
	"context"
	"testing"
	"time"

	"cotecsa-backend/internal/data/entity"
	apperrors "cotecsa-backend/internal/errors"
	"cotecsa-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRepo(db database.PgxIface) UserRepository {
	return NewUserRepository(db, zap.NewNop())
}

func TestCreate(t *testing.T) {
	t.Run("assigns generated id", func(t *testing.T) {
		now := time.Now()
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &database.FakeRow{Values: []any{int64(7), now, now}}
			},
		}

		code := "123456"
		user := &entity.User{
			FullName:         "Ana Morales",
			Email:            "ana@example.com",
			Phone:            "38123456",
			PasswordHash:     "hash",
			Role:             entity.RoleClient,
			VerificationCode: &code,
		}
		require.NoError(t, newRepo(db).Create(context.Background(), user))
		require.Equal(t, int64(7), user.ID)
	})

	t.Run("unique violation maps to duplicate email", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &database.FakeRow{Err: &pgconn.PgError{Code: "23505"}}
			},
		}

		err := newRepo(db).Create(context.Background(), &entity.User{Email: "ana@example.com"})
		require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &database.FakeRow{Err: &pgconn.PgError{Code: "53300"}}
			},
		}

		err := newRepo(db).Create(context.Background(), &entity.User{Email: "ana@example.com"})
		require.Error(t, err)
		require.NotErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})
}

func userRowValues(id int64, role entity.UserRole, verified bool, code *string) []any {
	now := time.Now()
	return []any{
		id, "Ana Morales", "ana@example.com", "38123456", "hash",
		string(role), verified, code, now, now,
	}
}

func TestFindByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		code := "123456"
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &database.FakeRow{Values: userRowValues(3, entity.RoleClient, false, &code)}
			},
		}

		user, err := newRepo(db).FindByEmail(context.Background(), "ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, int64(3), user.ID)
		require.Equal(t, entity.RoleClient, user.Role)
		require.False(t, user.Verified)
		require.NotNil(t, user.VerificationCode)
		require.Equal(t, "123456", *user.VerificationCode)
	})

	t.Run("absent is nil, not an error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &database.FakeRow{Err: pgx.ErrNoRows}
			},
		}

		user, err := newRepo(db).FindByEmail(context.Background(), "nadie@example.com")
		require.NoError(t, err)
		require.Nil(t, user)
	})
}

func TestFindAll(t *testing.T) {
	db := &database.FakeDB{
		QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &database.FakeRows{Rows: [][]any{
				userRowValues(1, entity.RoleAdmin, true, nil),
				userRowValues(2, entity.RoleClient, true, nil),
			}}, nil
		},
	}

	users, err := newRepo(db).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, entity.RoleAdmin, users[0].Role)
	require.Nil(t, users[0].VerificationCode)
}

func TestMarkVerified(t *testing.T) {
	t.Run("clears the code and sets verified", func(t *testing.T) {
		var gotSQL string
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
				gotSQL = sql
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}

		require.NoError(t, newRepo(db).MarkVerified(context.Background(), 3))
		require.Contains(t, gotSQL, "verification_code = NULL")
		require.Contains(t, gotSQL, "verified = TRUE")
	})

	t.Run("unknown user", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 0"), nil
			},
		}

		err := newRepo(db).MarkVerified(context.Background(), 42)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

/* ---------- guarded operations ---------- */

// guardTx scripts a transaction for the guard tests: the target's current
// role, the other admin ids the lock query returns, and the mutation.
func guardTx(role string, lockErr error, otherAdmins []int64) *database.FakeTx {
	tx := &database.FakeTx{}
	tx.QueryRowFn = func(_ context.Context, _ string, _ ...any) pgx.Row {
		if lockErr != nil {
			return &database.FakeRow{Err: lockErr}
		}
		return &database.FakeRow{Values: []any{role}}
	}
	tx.QueryFn = func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
		rows := make([][]any, 0, len(otherAdmins))
		for _, id := range otherAdmins {
			rows = append(rows, []any{id})
		}
		return &database.FakeRows{Rows: rows}, nil
	}
	tx.ExecFn = func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return tx
}

func dbWithTx(tx *database.FakeTx) *database.FakeDB {
	return &database.FakeDB{
		BeginFn: func(_ context.Context) (pgx.Tx, error) {
			return tx, nil
		},
	}
}

func TestChangeRoleGuarded(t *testing.T) {
	t.Run("unknown user rolls back", func(t *testing.T) {
		tx := guardTx("", pgx.ErrNoRows, nil)
		err := newRepo(dbWithTx(tx)).ChangeRoleGuarded(context.Background(), 42, entity.RoleClient)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		require.False(t, tx.Committed)
		require.True(t, tx.RolledBack)
	})

	t.Run("demoting the last admin is rejected before mutation", func(t *testing.T) {
		tx := guardTx("admin", nil, nil)
		tx.ExecFn = func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			panic("mutation must not run for the last admin")
		}

		err := newRepo(dbWithTx(tx)).ChangeRoleGuarded(context.Background(), 1, entity.RoleClient)
		require.ErrorIs(t, err, apperrors.ErrLastAdmin)
		require.False(t, tx.Committed)
	})

	t.Run("demotion commits when another admin remains", func(t *testing.T) {
		tx := guardTx("admin", nil, []int64{2})
		err := newRepo(dbWithTx(tx)).ChangeRoleGuarded(context.Background(), 1, entity.RoleClient)
		require.NoError(t, err)
		require.True(t, tx.Committed)
	})

	t.Run("admin to admin no-op skips the guard", func(t *testing.T) {
		tx := guardTx("admin", nil, nil)
		tx.QueryFn = func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			panic("guard must not run for a no-op change")
		}

		err := newRepo(dbWithTx(tx)).ChangeRoleGuarded(context.Background(), 1, entity.RoleAdmin)
		require.NoError(t, err)
		require.True(t, tx.Committed)
	})

	t.Run("promoting a client skips the guard", func(t *testing.T) {
		tx := guardTx("client", nil, nil)
		tx.QueryFn = func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			panic("guard must not run when promoting")
		}

		err := newRepo(dbWithTx(tx)).ChangeRoleGuarded(context.Background(), 2, entity.RoleAdmin)
		require.NoError(t, err)
		require.True(t, tx.Committed)
	})
}

func TestDeleteGuarded(t *testing.T) {
	t.Run("deleting the last admin is rejected", func(t *testing.T) {
		tx := guardTx("admin", nil, nil)
		tx.ExecFn = func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			panic("delete must not run for the last admin")
		}

		err := newRepo(dbWithTx(tx)).DeleteGuarded(context.Background(), 1)
		require.ErrorIs(t, err, apperrors.ErrLastAdmin)
		require.False(t, tx.Committed)
	})

	t.Run("deleting an admin with another admin present", func(t *testing.T) {
		tx := guardTx("admin", nil, []int64{2})
		err := newRepo(dbWithTx(tx)).DeleteGuarded(context.Background(), 1)
		require.NoError(t, err)
		require.True(t, tx.Committed)
	})

	t.Run("deleting a client skips the guard", func(t *testing.T) {
		tx := guardTx("client", nil, nil)
		tx.QueryFn = func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			panic("guard must not run for a client")
		}

		err := newRepo(dbWithTx(tx)).DeleteGuarded(context.Background(), 2)
		require.NoError(t, err)
		require.True(t, tx.Committed)
	})

	t.Run("unknown user", func(t *testing.T) {
		tx := guardTx("", pgx.ErrNoRows, nil)
		err := newRepo(dbWithTx(tx)).DeleteGuarded(context.Background(), 42)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		require.False(t, tx.Committed)
	})
}

func TestCountByRole(t *testing.T) {
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, []any{entity.RoleAdmin}, args)
			return &database.FakeRow{Values: []any{int64(2)}}
		},
	}

	count, err := newRepo(db).CountByRole(context.Background(), entity.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}
