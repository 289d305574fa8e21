package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelterops/facility-checkins/internal/model"
)

type GuestRepo struct{ DB *sql.DB }

func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{DB: db} }

const guestCols = "id, facility_id, first_name, last_name, active, favorite, comments, created_at, updated_at"

// GetByID fetches a guest scoped to its owning facility; a guest id from a
// different facility behaves as not found.
func (r *GuestRepo) GetByID(ctx context.Context, facilityID, id uint64) (*model.Guest, error) {
	var g model.Guest
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+guestCols+" FROM guests WHERE id=? AND facility_id=? LIMIT 1",
		id, facilityID).Scan(&g.ID, &g.FacilityID, &g.FirstName, &g.LastName,
		&g.Active, &g.Favorite, &g.Comments, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns a facility's guests with an optional name wildcard matched
// against both name parts.
func (r *GuestRepo) List(ctx context.Context, facilityID uint64, name string, active *bool, limit, offset int) ([]model.Guest, error) {
	q := "SELECT " + guestCols + " FROM guests WHERE facility_id=?"
	args := []any{facilityID}
	if name != "" {
		q += " AND (first_name LIKE ? OR last_name LIKE ?)"
		args = append(args, "%"+name+"%", "%"+name+"%")
	}
	if active != nil {
		q += " AND active=?"
		args = append(args, *active)
	}
	q += " ORDER BY last_name, first_name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Guest{}
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.ID, &g.FacilityID, &g.FirstName, &g.LastName,
			&g.Active, &g.Favorite, &g.Comments, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// Create inserts a guest. First/last name pairs are unique per facility.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO guests (facility_id, first_name, last_name, active, favorite, comments) VALUES (?,?,?,?,?,?)",
		g.FacilityID, g.FirstName, g.LastName, g.Active, g.Favorite, g.Comments)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Update rewrites a guest's mutable fields, scoped to the facility.
func (r *GuestRepo) Update(ctx context.Context, g *model.Guest) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE guests SET first_name=?, last_name=?, active=?, favorite=?, comments=? WHERE id=? AND facility_id=?",
		g.FirstName, g.LastName, g.Active, g.Favorite, g.Comments, g.ID, g.FacilityID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a guest, scoped to the facility.
func (r *GuestRepo) Delete(ctx context.Context, facilityID, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM guests WHERE id=? AND facility_id=?", id, facilityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
