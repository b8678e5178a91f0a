package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rturenne/catalog-reservation/internal/model"
)

// ResourceRepo provides read access to bookable resources together
// with their owned photos and option sets.  Public queries only see
// active resources.
type ResourceRepo struct{ DB *sql.DB }

// NewResourceRepo returns a ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{DB: db} }

// OptionWithValues pairs an option axis with its enumerated choices.
type OptionWithValues struct {
	model.ResourceOption
	Values []model.ResourceOptionValue
}

// ResourceDetail aggregates a resource with its ordered photos and its
// options.  It is the shape handlers serialize for list and detail
// responses.
type ResourceDetail struct {
	model.Resource
	Photos  []model.ResourcePhoto
	Options []OptionWithValues
}

// ListActive returns all active resources, optionally filtered to an
// active category by slug.  An unknown or inactive slug yields an
// empty list, not an error.
func (r *ResourceRepo) ListActive(ctx context.Context, categorySlug string) ([]ResourceDetail, error) {
	q := `SELECT r.id, r.category_id, r.name, r.description, r.is_active, r.created_at
	      FROM resources r`
	args := []interface{}{}
	if categorySlug != "" {
		q += ` JOIN categories c ON c.id = r.category_id AND c.is_active=1 AND c.slug=?`
		args = append(args, categorySlug)
	}
	q += ` WHERE r.is_active=1 ORDER BY r.id`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResourceDetail
	for rows.Next() {
		var d ResourceDetail
		if err := rows.Scan(&d.ID, &d.CategoryID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetActive returns a single active resource by id.  Missing and
// inactive resources are indistinguishable to the caller: both return
// ErrResourceNotFound.
func (r *ResourceRepo) GetActive(ctx context.Context, id uint64) (ResourceDetail, error) {
	var d ResourceDetail
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, category_id, name, description, is_active, created_at
		 FROM resources WHERE id=? AND is_active=1 LIMIT 1`, id).
		Scan(&d.ID, &d.CategoryID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return ResourceDetail{}, ErrResourceNotFound
	}
	if err != nil {
		return ResourceDetail{}, err
	}
	details := []ResourceDetail{d}
	if err := r.attachChildren(ctx, details); err != nil {
		return ResourceDetail{}, err
	}
	return details[0], nil
}

// attachChildren loads photos, options and option values for the given
// resources in three queries and distributes them in memory.
func (r *ResourceRepo) attachChildren(ctx context.Context, details []ResourceDetail) error {
	if len(details) == 0 {
		return nil
	}
	index := make(map[uint64]*ResourceDetail, len(details))
	ids := make([]interface{}, 0, len(details))
	for i := range details {
		index[details[i].ID] = &details[i]
		ids = append(ids, details[i].ID)
	}
	ph := placeholders(len(ids))

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, resource_id, image_url, position, created_at
		 FROM resource_photos WHERE resource_id IN (`+ph+`)
		 ORDER BY resource_id, position`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.ResourcePhoto
		if err := rows.Scan(&p.ID, &p.ResourceID, &p.ImageURL, &p.Position, &p.CreatedAt); err != nil {
			return err
		}
		if d := index[p.ResourceID]; d != nil {
			d.Photos = append(d.Photos, p)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	optRows, err := r.DB.QueryContext(ctx,
		`SELECT id, resource_id, name, created_at
		 FROM resource_options WHERE resource_id IN (`+ph+`)
		 ORDER BY resource_id, id`, ids...)
	if err != nil {
		return err
	}
	defer optRows.Close()
	// Options are collected as stable heap values first; values are
	// attached before the final distribution into each resource.
	var opts []*OptionWithValues
	optIndex := make(map[uint64]*OptionWithValues)
	for optRows.Next() {
		var o model.ResourceOption
		if err := optRows.Scan(&o.ID, &o.ResourceID, &o.Name, &o.CreatedAt); err != nil {
			return err
		}
		holder := &OptionWithValues{ResourceOption: o}
		opts = append(opts, holder)
		optIndex[o.ID] = holder
	}
	if err := optRows.Err(); err != nil {
		return err
	}

	valRows, err := r.DB.QueryContext(ctx,
		`SELECT v.id, v.option_id, v.value, v.created_at
		 FROM resource_option_values v
		 JOIN resource_options o ON o.id = v.option_id
		 WHERE o.resource_id IN (`+ph+`)
		 ORDER BY v.option_id, v.id`, ids...)
	if err != nil {
		return err
	}
	defer valRows.Close()
	for valRows.Next() {
		var v model.ResourceOptionValue
		if err := valRows.Scan(&v.ID, &v.OptionID, &v.Value, &v.CreatedAt); err != nil {
			return err
		}
		if o := optIndex[v.OptionID]; o != nil {
			o.Values = append(o.Values, v)
		}
	}
	if err := valRows.Err(); err != nil {
		return err
	}

	for _, o := range opts {
		if d := index[o.ResourceID]; d != nil {
			d.Options = append(d.Options, *o)
		}
	}
	return nil
}

// placeholders returns n comma-separated "?" markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
