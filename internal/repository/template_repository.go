package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelterops/facility-checkins/internal/model"
)

type TemplateRepo struct{ DB *sql.DB }

func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{DB: db} }

const templateCols = "id, facility_id, name, active, all_mats, handicap_mats, socket_mats, work_mats, comments, created_at, updated_at"

func scanTemplate(row interface{ Scan(...any) error }, t *model.Template) error {
	return row.Scan(&t.ID, &t.FacilityID, &t.Name, &t.Active, &t.AllMats,
		&t.HandicapMats, &t.SocketMats, &t.WorkMats, &t.Comments, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a template scoped to its owning facility.
func (r *TemplateRepo) GetByID(ctx context.Context, facilityID, id uint64) (*model.Template, error) {
	var t model.Template
	err := scanTemplate(r.DB.QueryRowContext(ctx,
		"SELECT "+templateCols+" FROM templates WHERE id=? AND facility_id=? LIMIT 1",
		id, facilityID), &t)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns a facility's templates with an optional name wildcard.
func (r *TemplateRepo) List(ctx context.Context, facilityID uint64, name string, limit, offset int) ([]model.Template, error) {
	q := "SELECT " + templateCols + " FROM templates WHERE facility_id=?"
	args := []any{facilityID}
	if name != "" {
		q += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}
	q += " ORDER BY name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Template{}
	for rows.Next() {
		var t model.Template
		if err := scanTemplate(rows, &t); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Create inserts a template. Names are unique per facility.
func (r *TemplateRepo) Create(ctx context.Context, t *model.Template) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO templates (facility_id, name, active, all_mats, handicap_mats, socket_mats, work_mats, comments) VALUES (?,?,?,?,?,?,?,?)",
		t.FacilityID, t.Name, t.Active, t.AllMats, t.HandicapMats, t.SocketMats, t.WorkMats, t.Comments)
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
	t.ID = uint64(id)
	return nil
}

// Update rewrites a template's mutable fields, scoped to the facility.
func (r *TemplateRepo) Update(ctx context.Context, t *model.Template) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE templates SET name=?, active=?, all_mats=?, handicap_mats=?, socket_mats=?, work_mats=?, comments=? WHERE id=? AND facility_id=?",
		t.Name, t.Active, t.AllMats, t.HandicapMats, t.SocketMats, t.WorkMats, t.Comments, t.ID, t.FacilityID)
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

// Delete removes a template, scoped to the facility.
func (r *TemplateRepo) Delete(ctx context.Context, facilityID, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM templates WHERE id=? AND facility_id=?", id, facilityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
