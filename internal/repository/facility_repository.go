package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelterops/facility-checkins/internal/auth"
	"github.com/shelterops/facility-checkins/internal/model"
)

type FacilityRepo struct{ DB *sql.DB }

func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{DB: db} }

const facilityCols = "id, name, scope, active, address, city, state, zipcode, phone, email, created_at, updated_at"

func scanFacility(row interface{ Scan(...any) error }, f *model.Facility) error {
	return row.Scan(&f.ID, &f.Name, &f.Scope, &f.Active, &f.Address, &f.City,
		&f.State, &f.Zipcode, &f.Phone, &f.Email, &f.CreatedAt, &f.UpdatedAt)
}

// GetByID fetches a facility by id.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	var f model.Facility
	err := scanFacility(r.DB.QueryRowContext(ctx,
		"SELECT "+facilityCols+" FROM facilities WHERE id=? LIMIT 1", id), &f)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByScope fetches a facility by its unique scope token.
func (r *FacilityRepo) GetByScope(ctx context.Context, scope string) (*model.Facility, error) {
	var f model.Facility
	err := scanFacility(r.DB.QueryRowContext(ctx,
		"SELECT "+facilityCols+" FROM facilities WHERE scope=? LIMIT 1", scope), &f)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns facilities with optional name-wildcard and active filters.
func (r *FacilityRepo) List(ctx context.Context, name string, active *bool, limit, offset int) ([]model.Facility, error) {
	q := "SELECT " + facilityCols + " FROM facilities"
	var conds []string
	var args []any
	if name != "" {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+name+"%")
	}
	if active != nil {
		conds = append(conds, "active=?")
		args = append(args, *active)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Facility{}
	for rows.Next() {
		var f model.Facility
		if err := scanFacility(rows, &f); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// Create inserts a facility. The scope token must not equal the reserved
// superuser literal; name and scope must be unique.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	if f.Scope == auth.Superuser {
		return ErrReservedScope
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO facilities (name, scope, active, address, city, state, zipcode, phone, email) VALUES (?,?,?,?,?,?,?,?,?)",
		f.Name, f.Scope, f.Active, f.Address, f.City, f.State, f.Zipcode, f.Phone, f.Email)
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
	f.ID = uint64(id)
	return nil
}

// Update rewrites the mutable facility fields.
func (r *FacilityRepo) Update(ctx context.Context, f *model.Facility) error {
	if f.Scope == auth.Superuser {
		return ErrReservedScope
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE facilities SET name=?, scope=?, active=?, address=?, city=?, state=?, zipcode=?, phone=?, email=? WHERE id=?",
		f.Name, f.Scope, f.Active, f.Address, f.City, f.State, f.Zipcode, f.Phone, f.Email, f.ID)
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

// Delete removes a facility row.
func (r *FacilityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM facilities WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
