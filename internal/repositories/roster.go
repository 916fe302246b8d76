package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/shared"
)

// RosterRepository implements [models.Repository] for [models.Roster] persistence.
type RosterRepository struct {
	db DBTX
}

// NewRosterRepository creates a new [RosterRepository] with the given database connection
func NewRosterRepository(db DBTX) *RosterRepository {
	return &RosterRepository{db: db}
}

const rosterColumns = `id, sequence, team_id, user_id, name, email, phone, birthdate, gender,
	has_address, address1, address2, city, address_state, zip, country, address_type,
	instagram_handle, facebook_handle, tiktok_handle, youtube_channel, profile_photo_id,
	state, roster_user_id, created_at, updated_at, deleted_at`

// Create inserts a new roster member with generated ID and sequence
func (r *RosterRepository) Create(roster *models.Roster) error {
	roster.Email = shared.NormalizeEmail(roster.Email)
	if err := roster.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "roster")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	roster.SetID(id)
	roster.SetSequence(sequence)

	query := `INSERT INTO roster (` + rosterColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := append([]any{id, sequence, roster.TeamID, roster.UserID}, rosterValues(roster)...)
	args = append(args, roster.CreatedAt(), roster.UpdatedAt(), nil)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert roster: %w", err)
	}
	return nil
}

// Get retrieves a roster member by ID, excluding soft-deleted members
func (r *RosterRepository) Get(id string) (*models.Roster, error) {
	query := `SELECT ` + rosterColumns + ` FROM roster WHERE id = ? AND deleted_at IS NULL`

	roster, err := scanRoster(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: roster %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	return roster, nil
}

// Update writes every mutable column of the roster member.
func (r *RosterRepository) Update(roster *models.Roster) error {
	roster.Email = shared.NormalizeEmail(roster.Email)
	if err := roster.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	roster.SetUpdatedAt(now)

	query := `
		UPDATE roster
		SET name = ?, email = ?, phone = ?, birthdate = ?, gender = ?,
			has_address = ?, address1 = ?, address2 = ?, city = ?, address_state = ?, zip = ?, country = ?, address_type = ?,
			instagram_handle = ?, facebook_handle = ?, tiktok_handle = ?, youtube_channel = ?, profile_photo_id = ?,
			state = ?, roster_user_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	args := append(rosterValues(roster), now, roster.ID())
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update roster: %w", err)
	}

	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: roster %s", shared.ErrNotFound, roster.ID())
	}
	return nil
}

// Delete soft-deletes a roster member by ID
func (r *RosterRepository) Delete(id string) error {
	query := `UPDATE roster SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete roster: %w", err)
	}

	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: roster %s", shared.ErrNotFound, id)
	}
	return nil
}

// List retrieves roster members matching the given criteria, excluding soft-deleted members.
//
// Supported criteria: "team_id", "state", "email", and "search" (case-insensitive name substring).
// Results are ordered by sequence. "limit" and "offset" (int) page the result.
func (r *RosterRepository) List(criteria map[string]any) ([]*models.Roster, error) {
	query := `SELECT ` + rosterColumns + ` FROM roster WHERE deleted_at IS NULL`
	args := []any{}

	if teamID := criteriaString(criteria, "team_id"); teamID != "" {
		query += " AND team_id = ?"
		args = append(args, teamID)
	}
	if state := criteriaString(criteria, "state"); state != "" {
		query += " AND state = ?"
		args = append(args, state)
	}
	if email := criteriaString(criteria, "email"); email != "" {
		query += " AND email = ?"
		args = append(args, shared.NormalizeEmail(email))
	}
	if search := criteriaString(criteria, "search"); search != "" {
		query += " AND name LIKE ? COLLATE NOCASE"
		args = append(args, "%"+search+"%")
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset, ok := criteria["offset"].(int); ok && offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var members []*models.Roster
	for rows.Next() {
		roster, err := scanRoster(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}
		members = append(members, roster)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return members, nil
}

// rosterValues returns the mutable columns in the order shared by INSERT and UPDATE,
// from name through roster_user_id.
func rosterValues(roster *models.Roster) []any {
	addr := roster.Address
	hasAddress := addr != nil
	if addr == nil {
		addr = &models.Address{}
	}

	return []any{
		roster.Name,
		nullable(roster.Email),
		nullable(roster.Phone),
		nullable(roster.Birthdate),
		nullable(roster.Gender),
		hasAddress,
		nullable(addr.Address1),
		nullable(addr.Address2),
		nullable(addr.City),
		nullable(addr.State),
		nullable(addr.Zip),
		nullable(addr.Country),
		nullable(addr.AddressType),
		nullable(roster.InstagramHandle),
		nullable(roster.FacebookHandle),
		nullable(roster.TikTokHandle),
		nullable(roster.YouTubeChannel),
		nullable(roster.ProfilePhotoID),
		string(roster.State),
		nullable(roster.RosterUserID),
	}
}

func scanRoster(s scanner) (*models.Roster, error) {
	var (
		id, teamID, userID, name, state                      string
		sequence                                             int
		email, phone, birthdate, gender                      sql.NullString
		hasAddress                                           bool
		address1, address2, city, addrState, zip, country    sql.NullString
		addrType                                             sql.NullString
		instagram, facebook, tiktok, youtube, profilePhotoID sql.NullString
		rosterUserID                                         sql.NullString
		createdAt, updatedAt                                 time.Time
		deletedAt                                            sql.NullTime
	)

	err := s.Scan(&id, &sequence, &teamID, &userID, &name, &email, &phone, &birthdate, &gender,
		&hasAddress, &address1, &address2, &city, &addrState, &zip, &country, &addrType,
		&instagram, &facebook, &tiktok, &youtube, &profilePhotoID,
		&state, &rosterUserID, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	roster := models.NewRoster(sequence, teamID, userID, name)
	roster.SetID(id)
	roster.SetCreatedAt(createdAt)
	roster.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		roster.SetDeletedAt(&deletedAt.Time)
	}

	roster.Email = email.String
	roster.Phone = phone.String
	roster.Birthdate = birthdate.String
	roster.Gender = gender.String
	roster.InstagramHandle = instagram.String
	roster.FacebookHandle = facebook.String
	roster.TikTokHandle = tiktok.String
	roster.YouTubeChannel = youtube.String
	roster.ProfilePhotoID = profilePhotoID.String
	roster.State = models.RosterState(state)
	roster.RosterUserID = rosterUserID.String

	if hasAddress {
		roster.Address = &models.Address{
			Address1:    address1.String,
			Address2:    address2.String,
			City:        city.String,
			State:       addrState.String,
			Zip:         zip.String,
			Country:     country.String,
			AddressType: addrType.String,
		}
	}
	return roster, nil
}
