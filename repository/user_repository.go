package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"go-auth-api/model"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrUserNotFound is returned when no row matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the unique email constraint is
	// violated. The pre-insert existence check in the service layer is
	// advisory only; this is the authoritative signal.
	ErrDuplicateEmail = errors.New("email already exists")
)

const pqUniqueViolation = "23505"

// ListUsersParams narrows and pages the user listing.
type ListUsersParams struct {
	Query string
	Role  string
	Page  int
	Limit int
}

// IUserRepository defines the contract for user persistence: lookup by
// id and by email, plus the management operations built on top.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	ListUsers(params ListUsersParams) ([]*model.User, int, error)
	UpdateUser(user *model.User) error
	UpdateUserRole(userID int, newRole string) error
	DeleteUser(id int) error
}

// UserRepository implements IUserRepository on PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (email, name, password, role) VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, user.Email, nullable(user.Name), user.Password, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	var name sql.NullString
	query := `SELECT id, email, name, password, role, created_at, updated_at FROM users WHERE email=$1`
	err := r.DB.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &name, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	user.Name = name.String
	return user, nil
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	user := &model.User{}
	var name sql.NullString
	query := `SELECT id, email, name, password, role, created_at, updated_at FROM users WHERE id=$1`
	err := r.DB.QueryRow(query, id).
		Scan(&user.ID, &user.Email, &name, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	user.Name = name.String
	return user, nil
}

// ListUsers returns one page of users plus the total match count.
func (r *UserRepository) ListUsers(params ListUsersParams) ([]*model.User, int, error) {
	var conditions []string
	var args []interface{}

	if params.Role != "" {
		args = append(args, params.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		conditions = append(conditions, fmt.Sprintf("(email ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, (params.Page-1)*params.Limit)
	query := fmt.Sprintf(
		`SELECT id, email, name, role, created_at, updated_at FROM users%s ORDER BY id LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user := &model.User{}
		var name sql.NullString
		if err := rows.Scan(&user.ID, &user.Email, &name, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, 0, err
		}
		user.Name = name.String
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// UpdateUser persists email, name and role for an existing user and
// refreshes updated_at.
func (r *UserRepository) UpdateUser(user *model.User) error {
	query := `UPDATE users SET email=$1, name=$2, role=$3, updated_at=NOW() WHERE id=$4
	          RETURNING updated_at`
	err := r.DB.QueryRow(query, user.Email, nullable(user.Name), user.Role, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) UpdateUserRole(userID int, newRole string) error {
	result, err := r.DB.Exec(`UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`, newRole, userID)
	if err != nil {
		return translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(id int) error {
	result, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
