package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/shared"
)

// RoleRepository persists [models.Role] rows, one per user and team.
type RoleRepository struct {
	db DBTX
}

func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

// Upsert creates the role or, when the user already has one on the team, replaces its level.
func (r *RoleRepository) Upsert(role *models.Role) error {
	if err := role.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	role.SetUpdatedAt(now)
	if role.ID() == "" {
		role.SetID(shared.GenerateID())
	}

	query := `
		INSERT INTO roles (id, user_id, team_id, role_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, team_id) DO UPDATE SET role_level = excluded.role_level, updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, role.ID(), role.UserID, role.TeamID, string(role.Level), role.CreatedAt(), now)
	if err != nil {
		return fmt.Errorf("failed to upsert role: %w", err)
	}

	stored, err := r.Get(role.UserID, role.TeamID)
	if err != nil {
		return err
	}
	role.SetID(stored.ID())
	role.SetCreatedAt(stored.CreatedAt())
	return nil
}

// Get retrieves the role a user holds on a team.
func (r *RoleRepository) Get(userID, teamID string) (*models.Role, error) {
	query := `
		SELECT id, user_id, team_id, role_level, created_at, updated_at
		FROM roles
		WHERE user_id = ? AND team_id = ?
	`

	role, err := scanRole(r.db.QueryRow(query, userID, teamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: role for user %s on team %s", shared.ErrNotFound, userID, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query role: %w", err)
	}
	return role, nil
}

// ListByUser returns every team role held by a user.
func (r *RoleRepository) ListByUser(userID string) ([]*models.Role, error) {
	query := `
		SELECT id, user_id, team_id, role_level, created_at, updated_at
		FROM roles
		WHERE user_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return roles, nil
}

func scanRole(s scanner) (*models.Role, error) {
	var (
		id, userID, teamID, level string
		createdAt, updatedAt      time.Time
	)
	if err := s.Scan(&id, &userID, &teamID, &level, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	role := models.NewRole(userID, teamID, models.RoleLevel(level))
	role.SetID(id)
	role.SetCreatedAt(createdAt)
	role.SetUpdatedAt(updatedAt)
	return role, nil
}
