package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shelterops/facility-checkins/internal/model"
)

type CheckinRepo struct{ DB *sql.DB }

func NewCheckinRepo(db *sql.DB) *CheckinRepo { return &CheckinRepo{DB: db} }

const checkinCols = "id, facility_id, guest_id, checkin_date, mat_number, features, payment_type, payment_amount, shower_time, wakeup_time, comments, created_at, updated_at"

func scanCheckin(row interface{ Scan(...any) error }, c *model.Checkin) error {
	var guestID sql.NullInt64
	var paymentType, showerTime, wakeupTime, comments sql.NullString
	var paymentAmount sql.NullFloat64
	err := row.Scan(&c.ID, &c.FacilityID, &guestID, &c.CheckinDate, &c.MatNumber,
		&c.Features, &paymentType, &paymentAmount, &showerTime, &wakeupTime,
		&comments, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}
	if guestID.Valid {
		v := uint64(guestID.Int64)
		c.GuestID = &v
	}
	c.PaymentType = paymentType.String
	c.PaymentAmount = paymentAmount.Float64
	c.ShowerTime = showerTime.String
	c.WakeupTime = wakeupTime.String
	c.Comments = comments.String
	return nil
}

// GetByID fetches a checkin scoped to its owning facility.
func (r *CheckinRepo) GetByID(ctx context.Context, facilityID, id uint64) (*model.Checkin, error) {
	var c model.Checkin
	err := scanCheckin(r.DB.QueryRowContext(ctx,
		"SELECT "+checkinCols+" FROM checkins WHERE id=? AND facility_id=? LIMIT 1",
		id, facilityID), &c)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByDate returns a facility's checkins for one night, ordered by mat.
func (r *CheckinRepo) ListByDate(ctx context.Context, facilityID uint64, date time.Time, limit, offset int) ([]model.Checkin, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+checkinCols+" FROM checkins WHERE facility_id=? AND checkin_date=? ORDER BY mat_number LIMIT ? OFFSET ?",
		facilityID, date, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Checkin{}
	for rows.Next() {
		var c model.Checkin
		if err := scanCheckin(rows, &c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Create inserts a checkin row. Mat numbers are unique per facility+date.
func (r *CheckinRepo) Create(ctx context.Context, c *model.Checkin) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO checkins (facility_id, guest_id, checkin_date, mat_number, features, payment_type, payment_amount, shower_time, wakeup_time, comments) VALUES (?,?,?,?,?,?,?,?,?,?)",
		c.FacilityID, c.GuestID, c.CheckinDate, c.MatNumber, c.Features,
		nullStr(c.PaymentType), nullFloat(c.PaymentAmount), nullStr(c.ShowerTime),
		nullStr(c.WakeupTime), nullStr(c.Comments))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Assign attaches a guest and stay details to an existing (empty) checkin.
func (r *CheckinRepo) Assign(ctx context.Context, c *model.Checkin) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE checkins SET guest_id=?, payment_type=?, payment_amount=?, shower_time=?, wakeup_time=?, comments=? WHERE id=? AND facility_id=?",
		c.GuestID, nullStr(c.PaymentType), nullFloat(c.PaymentAmount),
		nullStr(c.ShowerTime), nullStr(c.WakeupTime), nullStr(c.Comments),
		c.ID, c.FacilityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a checkin, scoped to the facility.
func (r *CheckinRepo) Delete(ctx context.Context, facilityID, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM checkins WHERE id=? AND facility_id=?", id, facilityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
