package model

import "time"

// Resource is a bookable item belonging to exactly one category.  The
// category reference is protected: a category cannot be deleted while
// resources still point at it.  Photos and options are owned by the
// resource and cascade-deleted with it.
//
// Fields:
//  ID          – primary key identifier.
//  CategoryID  – owning category (ON DELETE RESTRICT).
//  Name        – display name.
//  Description – free-form description, may be empty.
//  IsActive    – whether the resource is publicly visible and bookable.
//  CreatedAt   – timestamp of creation.
type Resource struct {
	ID          uint64    // resources.id
	CategoryID  uint64    // resources.category_id
	Name        string    // resources.name
	Description string    // resources.description
	IsActive    bool      // resources.is_active
	CreatedAt   time.Time // resources.created_at
}

// ResourcePhoto is an image asset attached to a resource with an
// explicit ordering position.  Upload mechanics live outside this
// service; only the public URL is stored.
//
// Fields:
//  ID         – primary key identifier.
//  ResourceID – owning resource (ON DELETE CASCADE).
//  ImageURL   – public URL of the image asset.
//  Position   – ordering position within the resource's photo list.
//  CreatedAt  – timestamp of creation.
type ResourcePhoto struct {
	ID         uint64    // resource_photos.id
	ResourceID uint64    // resource_photos.resource_id
	ImageURL   string    // resource_photos.image_url
	Position   uint32    // resource_photos.position
	CreatedAt  time.Time // resource_photos.created_at
}

// ResourceOption is a named configurable axis of a resource, e.g.
// "size".  Its enumerated choices live in ResourceOptionValue rows.
//
// Fields:
//  ID         – primary key identifier.
//  ResourceID – owning resource (ON DELETE CASCADE).
//  Name       – axis name.
//  CreatedAt  – timestamp of creation.
type ResourceOption struct {
	ID         uint64    // resource_options.id
	ResourceID uint64    // resource_options.resource_id
	Name       string    // resource_options.name
	CreatedAt  time.Time // resource_options.created_at
}

// ResourceOptionValue is one enumerated choice of an option, e.g.
// "large" for a "size" option.
//
// Fields:
//  ID        – primary key identifier.
//  OptionID  – owning option (ON DELETE CASCADE).
//  Value     – the choice itself.
//  CreatedAt – timestamp of creation.
type ResourceOptionValue struct {
	ID        uint64    // resource_option_values.id
	OptionID  uint64    // resource_option_values.option_id
	Value     string    // resource_option_values.value
	CreatedAt time.Time // resource_option_values.created_at
}
