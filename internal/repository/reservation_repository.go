package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rturenne/catalog-reservation/internal/model"
)

// ReservationRepo provides creation, listing and status transitions
// for reservations.  Creation inserts the reservation row and its
// selected-option join rows in one transaction.  Status transitions
// are plain per-row updates; callers validate the target status before
// it reaches this layer.
type ReservationRepo struct{ DB *sql.DB }

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// ReservationRecord is a reservation enriched with the resource name
// and the requester's profile fields for display.  Profile fields are
// nil when no local profile matches the requester id (the reservation
// outlives any particular profile state by design).
type ReservationRecord struct {
	ID                 uint64
	ResourceID         uint64
	ResourceName       string
	RequesterID        string
	Status             model.ReservationStatus
	SelectedOptionIDs  []uint64
	RequesterEmail     *string
	RequesterFirstName *string
	RequesterLastName  *string
	CreatedAt          time.Time
}

// Create inserts a reservation with status pending and links the
// selected option values.  The requester id comes from the verified
// token, never from client input.  The resource must exist and every
// option value id must exist; whether the values belong to the target
// resource's own option set is intentionally not checked, matching the
// recorded product decision.
func (r *ReservationRepo) Create(ctx context.Context, resourceID uint64, requesterID string, optionValueIDs []uint64) (ReservationRecord, error) {
	optionValueIDs = dedupe(optionValueIDs)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return ReservationRecord{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM resources WHERE id=? LIMIT 1", resourceID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ReservationRecord{}, ErrResourceNotFound
	}
	if err != nil {
		return ReservationRecord{}, err
	}

	if len(optionValueIDs) > 0 {
		args := make([]interface{}, len(optionValueIDs))
		for i, id := range optionValueIDs {
			args[i] = id
		}
		var count int
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM resource_option_values WHERE id IN ("+placeholders(len(args))+")",
			args...).Scan(&count)
		if err != nil {
			return ReservationRecord{}, err
		}
		if count != len(optionValueIDs) {
			return ReservationRecord{}, ErrOptionValueNotFound
		}
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (resource_id, requester_id, status) VALUES (?,?,?)",
		resourceID, requesterID, model.StatusPending)
	if err != nil {
		return ReservationRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ReservationRecord{}, err
	}

	if len(optionValueIDs) > 0 {
		q := "INSERT INTO reservation_options (reservation_id, option_value_id) VALUES "
		args := make([]interface{}, 0, len(optionValueIDs)*2)
		for i, vid := range optionValueIDs {
			if i > 0 {
				q += ","
			}
			q += "(?,?)"
			args = append(args, id, vid)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return ReservationRecord{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ReservationRecord{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID returns a single reservation with its display fields and
// selected option ids, or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (ReservationRecord, error) {
	recs, err := r.list(ctx, "WHERE r.id=?", id)
	if err != nil {
		return ReservationRecord{}, err
	}
	if len(recs) == 0 {
		return ReservationRecord{}, ErrReservationNotFound
	}
	return recs[0], nil
}

// ListByRequester returns the reservations owned by subjectID, newest
// first.
func (r *ReservationRepo) ListByRequester(ctx context.Context, subjectID string) ([]ReservationRecord, error) {
	return r.list(ctx, "WHERE r.requester_id=?", subjectID)
}

// ListAll returns every reservation, newest first.  No pagination is
// offered; the administrative view consumes the full set.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationRecord, error) {
	return r.list(ctx, "")
}

// UpdateStatus persists a new status for the reservation and returns
// the updated record along with the previous status.  It returns
// ErrReservationNotFound when no row matches.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) (ReservationRecord, model.ReservationStatus, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return ReservationRecord{}, "", err
	}
	defer func() { _ = tx.Rollback() }()

	var prev model.ReservationStatus
	err = tx.QueryRowContext(ctx, "SELECT status FROM reservations WHERE id=? FOR UPDATE", id).Scan(&prev)
	if err == sql.ErrNoRows {
		return ReservationRecord{}, "", ErrReservationNotFound
	}
	if err != nil {
		return ReservationRecord{}, "", err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE reservations SET status=? WHERE id=?", status, id); err != nil {
		return ReservationRecord{}, "", err
	}
	if err := tx.Commit(); err != nil {
		return ReservationRecord{}, "", err
	}

	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return ReservationRecord{}, "", err
	}
	return rec, prev, nil
}

// list runs the shared join query with an optional WHERE clause and
// batch-loads the selected option ids for the returned reservations.
func (r *ReservationRepo) list(ctx context.Context, where string, args ...interface{}) ([]ReservationRecord, error) {
	q := `SELECT r.id, r.resource_id, res.name, r.requester_id, r.status, r.created_at,
	             p.email, p.first_name, p.last_name
	      FROM reservations r
	      JOIN resources res ON res.id = r.resource_id
	      LEFT JOIN profiles p ON p.subject_id = r.requester_id `
	q += where + " ORDER BY r.created_at DESC, r.id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReservationRecord
	index := make(map[uint64]*ReservationRecord)
	for rows.Next() {
		var rec ReservationRecord
		var email, first, last sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ResourceID, &rec.ResourceName, &rec.RequesterID,
			&rec.Status, &rec.CreatedAt, &email, &first, &last); err != nil {
			return nil, err
		}
		if email.Valid {
			rec.RequesterEmail = &email.String
		}
		if first.Valid {
			rec.RequesterFirstName = &first.String
		}
		if last.Valid {
			rec.RequesterLastName = &last.String
		}
		rec.SelectedOptionIDs = []uint64{}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	for i := range out {
		index[out[i].ID] = &out[i]
	}

	ids := make([]interface{}, 0, len(out))
	for i := range out {
		ids = append(ids, out[i].ID)
	}
	optRows, err := r.DB.QueryContext(ctx,
		"SELECT reservation_id, option_value_id FROM reservation_options WHERE reservation_id IN ("+
			placeholders(len(ids))+") ORDER BY reservation_id, option_value_id", ids...)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()
	for optRows.Next() {
		var rid, vid uint64
		if err := optRows.Scan(&rid, &vid); err != nil {
			return nil, err
		}
		if rec := index[rid]; rec != nil {
			rec.SelectedOptionIDs = append(rec.SelectedOptionIDs, vid)
		}
	}
	return out, optRows.Err()
}

// dedupe drops zero and repeated ids while preserving order.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
