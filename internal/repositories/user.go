package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/shared"
)

// UserRepository implements [models.Repository] for user [models.User] persistence.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, sequence, email, name, email_verified, state, created_at, updated_at, deleted_at`

// Create inserts a new user into the database with generated ID and sequence.
// The email is normalized before it is stored.
func (r *UserRepository) Create(user *models.User) error {
	user.SetEmail(shared.NormalizeEmail(user.Email()))
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)
	user.SetSequence(sequence)

	query := `
		INSERT INTO users (id, sequence, email, name, email_verified, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.Email(), user.Name(), user.EmailVerified(), string(user.State()),
		user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by normalized email, excluding soft-deleted users
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	email = shared.NormalizeEmail(email)
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user with email %s", shared.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(user *models.User) error {
	user.SetEmail(shared.NormalizeEmail(user.Email()))
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET email = ?, name = ?, email_verified = ?, state = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Email(), user.Name(), user.EmailVerified(), string(user.State()), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, user.ID())
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE users
		SET deleted_at = ?, state = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, string(models.UserDeleted), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria, excluding soft-deleted users.
//
// Supported criteria: "email" (string), "state" (string or [models.UserState]).
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, shared.NormalizeEmail(email))
	}
	if state := criteriaString(criteria, "state"); state != "" {
		query += " AND state = ?"
		args = append(args, state)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

func scanUser(s scanner) (*models.User, error) {
	var (
		userID        string
		sequence      int
		email         string
		name          string
		emailVerified bool
		state         string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := s.Scan(&userID, &sequence, &email, &name, &emailVerified, &state, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(sequence, email, name)
	user.SetID(userID)
	user.SetEmailVerified(emailVerified)
	user.SetState(models.UserState(state))
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}
	return user, nil
}

// criteriaString reads a string-like criterion, accepting named string types via fmt.
func criteriaString(criteria map[string]any, key string) string {
	switch v := criteria[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
