package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/store"
)

// formColumns is the ordered list of columns selected in form queries.
// Must match the scan order in scanForm.
const formColumns = `id, owner_id, name, rank_type, rank_number, belt_color, category,
	description, reference_url, learned, created_at, updated_at, deleted_at`

// scanForm scans a sql.Row (or sql.Rows via its Scan method) into a domain.Form.
func scanForm(scanner interface{ Scan(dest ...any) error }) (*domain.Form, error) {
	var f domain.Form

	var (
		rankType     string
		beltColor    sql.NullString
		category     string
		referenceURL sql.NullString
		learned      int
		createdAt    string
		updatedAt    string
		deletedAt    sql.NullString
	)

	err := scanner.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&rankType,
		&f.RankNumber,
		&beltColor,
		&category,
		&f.Description,
		&referenceURL,
		&learned,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	f.RankType = domain.RankType(rankType)
	f.Category = domain.Category(category)
	f.BeltColor = beltColor.String
	f.ReferenceURL = referenceURL.String
	f.Learned = learned != 0

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	f.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// formWriteError maps a failed form write to a store error. A clash on the primary key is
// ErrAlreadyExists; any other unique failure comes from the live-slot index.
func formWriteError(err error) error {
	if !isUniqueViolation(err) {
		return err
	}
	if strings.Contains(err.Error(), "forms.id") {
		return store.ErrAlreadyExists
	}
	return store.ErrDuplicateForm
}

// CreateForm inserts a new form.
// Returns store.ErrDuplicateForm if the owner already has a live form in the same slot.
func (s *Store) CreateForm(ctx context.Context, f *domain.Form) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO forms (
			id, owner_id, name, rank_type, rank_number, belt_color, category,
			description, reference_url, learned, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.OwnerID,
		f.Name,
		string(f.RankType),
		f.RankNumber,
		nullString(f.BeltColor),
		string(f.Category),
		f.Description,
		nullString(f.ReferenceURL),
		boolToInt(f.Learned),
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
		nullTimeString(f.DeletedAt),
	)
	if err != nil {
		return formWriteError(err)
	}
	return nil
}

// GetForm retrieves a form by ID, live or trashed.
// Returns store.ErrNotFound if the form does not exist.
func (s *Store) GetForm(ctx context.Context, id string) (*domain.Form, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM forms WHERE id = ?`, id)

	f, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateForm overwrites the editable fields of a live form.
// Returns store.ErrNotFound if no live form has that ID.
func (s *Store) UpdateForm(ctx context.Context, f *domain.Form) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE forms SET
			name = ?,
			rank_type = ?,
			rank_number = ?,
			belt_color = ?,
			category = ?,
			description = ?,
			reference_url = ?,
			learned = ?,
			updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		f.Name,
		string(f.RankType),
		f.RankNumber,
		nullString(f.BeltColor),
		string(f.Category),
		f.Description,
		nullString(f.ReferenceURL),
		boolToInt(f.Learned),
		formatTime(f.UpdatedAt),
		f.ID,
	)
	if err != nil {
		return formWriteError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetFormDeletedAt writes the form's DeletedAt and UpdatedAt.
// A nil DeletedAt restores the form, which fails with store.ErrDuplicateForm when the slot is taken.
func (s *Store) SetFormDeletedAt(ctx context.Context, f *domain.Form) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE forms SET deleted_at = ?, updated_at = ? WHERE id = ?`,
		nullTimeString(f.DeletedAt),
		formatTime(f.UpdatedAt),
		f.ID,
	)
	if err != nil {
		return formWriteError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteForm permanently removes a form.
// Returns store.ErrNotFound if the form does not exist.
func (s *Store) DeleteForm(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListForms returns an owner's forms. Live listings come back by creation time;
// trash listings come back most recently trashed first.
func (s *Store) ListForms(ctx context.Context, filter store.FormFilter) ([]*domain.Form, error) {
	if filter.OwnerID == "" {
		return nil, fmt.Errorf("list forms: owner is required")
	}

	query := `SELECT ` + formColumns + ` FROM forms WHERE owner_id = ?`
	args := []any{filter.OwnerID}

	switch filter.State {
	case store.FormsLive:
		query += ` AND deleted_at IS NULL`
	case store.FormsTrashed:
		query += ` AND deleted_at IS NOT NULL`
	case store.FormsAll:
	}
	if filter.LearnedOnly {
		query += ` AND learned = 1`
	}

	if filter.State == store.FormsTrashed {
		query += ` ORDER BY updated_at DESC, id`
	} else {
		query += ` ORDER BY created_at, id`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var forms []*domain.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// FindLiveForm returns the owner's live form holding the (name, rank) slot, ignoring excludeID.
// Returns store.ErrNotFound if the slot is free.
func (s *Store) FindLiveForm(ctx context.Context, ownerID, name string, rank domain.Rank, excludeID string) (*domain.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+formColumns+` FROM forms
		WHERE owner_id = ? AND name = ? AND rank_type = ? AND rank_number = ?
			AND deleted_at IS NULL AND id <> ?
		LIMIT 1`,
		ownerID, name, string(rank.Type), rank.Number, excludeID,
	)

	f, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFormsByOwner permanently removes every form of an owner and returns how many were removed.
func (s *Store) DeleteFormsByOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var _ store.FormStore = (*Store)(nil)
