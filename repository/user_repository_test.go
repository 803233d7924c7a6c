// file: repository/user_repository_test.go

package repository

import (
	"database/sql"
	"go-auth-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func userColumns() []string {
	return []string{"id", "email", "name", "password", "role", "created_at", "updated_at"}
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("success", func(t *testing.T) {
		now := time.Now()
		dbMock.ExpectQuery("INSERT INTO users").
			WithArgs("a@b.com", "Alice", "hashed", "user").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

		user := &model.User{Email: "a@b.com", Name: "Alice", Password: "hashed", Role: "user"}
		err := repo.CreateUser(user)

		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to ErrDuplicateEmail", func(t *testing.T) {
		dbMock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505"})

		user := &model.User{Email: "a@b.com", Password: "hashed", Role: "user"}
		err := repo.CreateUser(user)

		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(userColumns()).
			AddRow(1, "a@b.com", "Alice", "hashed", "user", now, now)
		dbMock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("a@b.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail("a@b.com")

		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "Alice", user.Name)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrUserNotFound", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("nobody@b.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetUserByEmail("nobody@b.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("null name scans to empty string", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(userColumns()).
			AddRow(2, "b@b.com", nil, "hashed", "user", now, now)
		dbMock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("b@b.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail("b@b.com")

		assert.NoError(t, err)
		assert.Equal(t, "", user.Name)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	dbMock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetUserByID(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUserRepository_ListUsers(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	now := time.Now()

	t.Run("role filter and paging", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT COUNT(.+) FROM users WHERE role").
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		dbMock.ExpectQuery("SELECT (.+) FROM users WHERE role (.+) LIMIT").
			WithArgs("admin", 10, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "created_at", "updated_at"}).
				AddRow(1, "admin@b.com", "Root", "admin", now, now))

		users, total, err := repo.ListUsers(ListUsersParams{Role: "admin", Page: 1, Limit: 10})

		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, users, 1)
		assert.Equal(t, "admin@b.com", users[0].Email)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("text search", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT COUNT(.+) FROM users WHERE").
			WithArgs("%ali%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		dbMock.ExpectQuery("SELECT (.+) FROM users WHERE (.+) LIMIT").
			WithArgs("%ali%", 10, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "created_at", "updated_at"}))

		users, total, err := repo.ListUsers(ListUsersParams{Query: "ali", Page: 2, Limit: 10})

		assert.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, users)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserRepository_UpdateUserRole(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("success", func(t *testing.T) {
		dbMock.ExpectExec("UPDATE users SET role").
			WithArgs("admin", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateUserRole(1, "admin"))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("no rows affected maps to ErrUserNotFound", func(t *testing.T) {
		dbMock.ExpectExec("UPDATE users SET role").
			WithArgs("admin", 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateUserRole(99, "admin"), ErrUserNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserRepository_DeleteUser(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	dbMock.ExpectExec("DELETE FROM users").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteUser(99), ErrUserNotFound)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
