package model

import "time"

// Category is a node in the tree of catalog groupings.  Categories
// reference their parent through ParentID; deleting a parent cascades
// to its children at the storage layer.  Inactive categories are
// filtered out of every public response.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name.
//  Slug      – unique URL-safe identifier.
//  IsActive  – whether the category is publicly visible.
//  ParentID  – parent category (null for top-level nodes).
//  CreatedAt – timestamp of creation.
type Category struct {
	ID        uint64    // categories.id
	Name      string    // categories.name
	Slug      string    // categories.slug
	IsActive  bool      // categories.is_active
	ParentID  *uint64   // categories.parent_id (nullable, self-reference)
	CreatedAt time.Time // categories.created_at
}
