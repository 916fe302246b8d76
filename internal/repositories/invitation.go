package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/shared"
)

// InvitationRepository persists [models.Invitation] tokens by hash.
type InvitationRepository struct {
	db DBTX
}

func NewInvitationRepository(db DBTX) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `id, token_hash, team_id, invited_email, invited_by_user_id, invitation_type,
	invitation_context, expires_at, accepted_at, created_at`

// Create stores a new invitation. A second pending invitation for the same team, email
// and type violates ix_invitation_pending_unique and is reported as [shared.ErrInvitationPending].
func (r *InvitationRepository) Create(inv *models.Invitation) error {
	inv.InvitedEmail = shared.NormalizeEmail(inv.InvitedEmail)
	if err := inv.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	context, err := inv.ContextJSON()
	if err != nil {
		return fmt.Errorf("failed to encode invitation context: %w", err)
	}

	id := shared.GenerateID()
	inv.SetID(id)

	query := `INSERT INTO invitations (` + invitationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query, id, inv.TokenHash, inv.TeamID, inv.InvitedEmail, inv.InvitedByUserID,
		string(inv.Type), context, inv.ExpiresAt.UTC(), nil, inv.CreatedAt())
	if err != nil {
		if pending, _ := r.FindPending(inv.TeamID, inv.InvitedEmail, inv.Type); pending != nil {
			return fmt.Errorf("%w: %s", shared.ErrInvitationPending, inv.InvitedEmail)
		}
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// Get retrieves an invitation by ID.
func (r *InvitationRepository) Get(id string) (*models.Invitation, error) {
	return r.getOne(`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
}

// GetByHash retrieves an invitation by the SHA-256 hash of its token.
func (r *InvitationRepository) GetByHash(hash string) (*models.Invitation, error) {
	return r.getOne(`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
}

// FindPending returns the unaccepted invitation for a team, email and type, or nil.
// The returned invitation may have expired.
func (r *InvitationRepository) FindPending(teamID, email string, kind models.InvitationType) (*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE team_id = ? AND invited_email = ? AND invitation_type = ? AND accepted_at IS NULL
	`

	inv, err := scanInvitation(r.db.QueryRow(query, teamID, shared.NormalizeEmail(email), string(kind)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pending invitation: %w", err)
	}
	return inv, nil
}

// PurgeExpiredPending deletes the pending invitation for a team, email and type when it
// expired before now, freeing the slot for a new one. It reports whether a row was removed.
func (r *InvitationRepository) PurgeExpiredPending(teamID, email string, kind models.InvitationType, now time.Time) (bool, error) {
	pending, err := r.FindPending(teamID, email, kind)
	if err != nil || pending == nil {
		return false, err
	}
	if pending.IsValid(now) {
		return false, nil
	}

	if _, err := r.db.Exec(`DELETE FROM invitations WHERE id = ?`, pending.ID()); err != nil {
		return false, fmt.Errorf("failed to delete expired invitation: %w", err)
	}
	return true, nil
}

// Delete removes a pending invitation. Accepted invitations are kept and reported as
// [shared.ErrNotFound] along with unknown IDs.
func (r *InvitationRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM invitations WHERE id = ? AND accepted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: pending invitation %s", shared.ErrNotFound, id)
	}
	return nil
}

// MarkAccepted stamps the invitation as accepted. Accepting twice is reported as
// [shared.ErrInvitationInvalid].
func (r *InvitationRepository) MarkAccepted(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE invitations SET accepted_at = ? WHERE id = ? AND accepted_at IS NULL`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: invitation %s already accepted or missing", shared.ErrInvitationInvalid, id)
	}
	return nil
}

// List retrieves invitations matching "team_id", "email", "type" and "pending" (bool), newest first.
func (r *InvitationRepository) List(criteria map[string]any) ([]*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE 1 = 1`
	args := []any{}

	if teamID := criteriaString(criteria, "team_id"); teamID != "" {
		query += " AND team_id = ?"
		args = append(args, teamID)
	}
	if email := criteriaString(criteria, "email"); email != "" {
		query += " AND invited_email = ?"
		args = append(args, shared.NormalizeEmail(email))
	}
	if kind := criteriaString(criteria, "type"); kind != "" {
		query += " AND invitation_type = ?"
		args = append(args, kind)
	}
	if pending, ok := criteria["pending"].(bool); ok && pending {
		query += " AND accepted_at IS NULL"
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return invitations, nil
}

func (r *InvitationRepository) getOne(query string, arg any) (*models.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invitation", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query invitation: %w", err)
	}
	return inv, nil
}

func scanInvitation(s scanner) (*models.Invitation, error) {
	var (
		id, hash, teamID, email, invitedBy, kind, rawContext string
		expiresAt, createdAt                                 time.Time
		acceptedAt                                           sql.NullTime
	)

	err := s.Scan(&id, &hash, &teamID, &email, &invitedBy, &kind, &rawContext, &expiresAt, &acceptedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	context := map[string]any{}
	if rawContext != "" {
		if err := json.Unmarshal([]byte(rawContext), &context); err != nil {
			return nil, fmt.Errorf("invalid invitation context: %w", err)
		}
	}

	inv := models.NewInvitation(hash, teamID, email, invitedBy, models.InvitationType(kind), context, expiresAt)
	inv.SetID(id)
	inv.SetCreatedAt(createdAt)
	if acceptedAt.Valid {
		inv.AcceptedAt = &acceptedAt.Time
	}
	return inv, nil
}
