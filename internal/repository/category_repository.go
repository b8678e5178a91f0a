package repository

import (
	"context"
	"database/sql"

	"github.com/rturenne/catalog-reservation/internal/model"
)

// CategoryRepo provides read access to the category tree.  Only active
// categories are ever exposed publicly; tree shaping happens in the
// handler layer from the flat list returned here.
type CategoryRepo struct{ DB *sql.DB }

// NewCategoryRepo returns a CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// ListActive returns every active category ordered by name.  Children
// of inactive parents are still returned; whether they surface depends
// on the tree the handler builds from the parent references.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, slug, is_active, parent_id, created_at
		 FROM categories WHERE is_active=1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &parent, &c.CreatedAt); err != nil {
			return nil, err
		}
		if parent.Valid {
			pid := uint64(parent.Int64)
			c.ParentID = &pid
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
