package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rturenne/catalog-reservation/internal/model"
)

// ProfileRepo is the authoritative local mapping from external subject
// id to profile rows.  Profiles are created lazily on the first
// verified request carrying an unknown subject and kept in sync with
// the provider's claims on every subsequent request.
type ProfileRepo struct{ DB *sql.DB }

// NewProfileRepo returns a ProfileRepo bound to the given database.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileCols = "id, subject_id, email, first_name, last_name, is_admin, created_at"

// Reconcile get-or-creates the profile for subjectID and overwrites any
// stored identity field that differs from a non-empty verified claim.
// Two processes racing on the first request from a new subject both
// attempt the insert; the loser hits the unique key on subject_id and
// re-reads the winner's row instead of failing.
func (r *ProfileRepo) Reconcile(ctx context.Context, subjectID, email, firstName, lastName string) (model.Profile, error) {
	p, err := r.GetBySubject(ctx, subjectID)
	if err == sql.ErrNoRows {
		p, err = r.create(ctx, subjectID, email, firstName, lastName)
	}
	if err != nil {
		return model.Profile{}, err
	}
	return r.syncClaims(ctx, p, email, firstName, lastName)
}

// GetBySubject fetches a profile by its external subject id.  It
// returns sql.ErrNoRows when no profile exists yet.
func (r *ProfileRepo) GetBySubject(ctx context.Context, subjectID string) (model.Profile, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM profiles WHERE subject_id=? LIMIT 1", subjectID))
}

// SetAdmin flips the administrator flag for a subject.  There is no
// HTTP surface for this; promotion is an operational action.
func (r *ProfileRepo) SetAdmin(ctx context.Context, subjectID string, isAdmin bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET is_admin=? WHERE subject_id=?", isAdmin, subjectID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ProfileRepo) create(ctx context.Context, subjectID, email, firstName, lastName string) (model.Profile, error) {
	if email == "" {
		// Deterministic placeholder so the column stays addressable
		// even when the provider omits the email claim.
		email = fmt.Sprintf("%s@placeholder.invalid", subjectID)
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO profiles (subject_id, email, first_name, last_name) VALUES (?,?,?,?)",
		subjectID, email, nullable(firstName), nullable(lastName))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			// Lost the get-or-create race; use the winner's row.
			return r.GetBySubject(ctx, subjectID)
		}
		return model.Profile{}, err
	}
	return r.GetBySubject(ctx, subjectID)
}

// syncClaims persists email/first/last name when a non-empty verified
// claim differs from the stored value.  A no-op when nothing changed.
func (r *ProfileRepo) syncClaims(ctx context.Context, p model.Profile, email, firstName, lastName string) (model.Profile, error) {
	changed := false
	if email != "" && email != p.Email {
		p.Email = email
		changed = true
	}
	if firstName != "" && (p.FirstName == nil || *p.FirstName != firstName) {
		p.FirstName = &firstName
		changed = true
	}
	if lastName != "" && (p.LastName == nil || *p.LastName != lastName) {
		p.LastName = &lastName
		changed = true
	}
	if !changed {
		return p, nil
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET email=?, first_name=?, last_name=? WHERE id=?",
		p.Email, p.FirstName, p.LastName, p.ID)
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepo) scanOne(row *sql.Row) (model.Profile, error) {
	var p model.Profile
	var first, last sql.NullString
	err := row.Scan(&p.ID, &p.SubjectID, &p.Email, &first, &last, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		return model.Profile{}, err
	}
	if first.Valid {
		p.FirstName = &first.String
	}
	if last.Valid {
		p.LastName = &last.String
	}
	return p, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
