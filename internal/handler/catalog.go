package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/model"
	"github.com/rturenne/catalog-reservation/internal/repository"
)

// CatalogHandler serves the public read-only catalog: the category
// tree and the bookable resources with their photos and option sets.
type CatalogHandler struct {
	Categories CategoryStore
	Resources  ResourceStore
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(categories CategoryStore, resources ResourceStore) *CatalogHandler {
	if categories == nil || resources == nil {
		panic("nil store passed to NewCatalogHandler")
	}
	return &CatalogHandler{Categories: categories, Resources: resources}
}

// CategoryResponse is a category node with its nested active children.
type CategoryResponse struct {
	ID       uint64              `json:"id"`
	Name     string              `json:"name"`
	Slug     string              `json:"slug"`
	Parent   *uint64             `json:"parent"`
	Children []*CategoryResponse `json:"children"`
}

// PhotoResponse is an ordered image attached to a resource.
type PhotoResponse struct {
	ID       uint64 `json:"id"`
	ImageURL string `json:"image_url"`
	Position uint32 `json:"position"`
}

// OptionValueResponse is one enumerated choice of an option.
type OptionValueResponse struct {
	ID    uint64 `json:"id"`
	Value string `json:"value"`
}

// OptionResponse is an option axis with its values.
type OptionResponse struct {
	ID     uint64                `json:"id"`
	Name   string                `json:"name"`
	Values []OptionValueResponse `json:"values"`
}

// ResourceResponse is the public shape of a bookable resource.
type ResourceResponse struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    *CategoryResponse `json:"category"`
	Photos      []PhotoResponse   `json:"photos"`
	Options     []OptionResponse  `json:"options"`
}

// ListCategories handles GET /categories/.  It returns the top-level
// active categories with their active children nested recursively.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Categories.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	_, roots := buildCategoryTree(cats)
	return c.JSON(http.StatusOK, roots)
}

// ListResources handles GET /resources/.  The optional ?category=<slug>
// query narrows the list to an active category; an unknown slug yields
// an empty list.
func (h *CatalogHandler) ListResources(c echo.Context) error {
	ctx := c.Request().Context()
	details, err := h.Resources.ListActive(ctx, c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	cats, err := h.Categories.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byID, _ := buildCategoryTree(cats)

	out := make([]ResourceResponse, 0, len(details))
	for _, d := range details {
		out = append(out, resourceResponse(d, byID))
	}
	return c.JSON(http.StatusOK, out)
}

// GetResource handles GET /resources/:id/.  Missing and inactive
// resources both return 404.
func (h *CatalogHandler) GetResource(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
	}
	ctx := c.Request().Context()
	detail, err := h.Resources.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	cats, err := h.Categories.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byID, _ := buildCategoryTree(cats)
	return c.JSON(http.StatusOK, resourceResponse(detail, byID))
}

// buildCategoryTree links the flat active-category list into a tree.
// A child whose parent is not in the list (inactive parent) is dropped
// from the roots, mirroring a traversal that starts at active
// top-level nodes.
func buildCategoryTree(cats []model.Category) (map[uint64]*CategoryResponse, []*CategoryResponse) {
	byID := make(map[uint64]*CategoryResponse, len(cats))
	for _, c := range cats {
		byID[c.ID] = &CategoryResponse{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			Parent:   c.ParentID,
			Children: []*CategoryResponse{},
		}
	}
	roots := []*CategoryResponse{}
	for _, c := range cats {
		node := byID[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent := byID[*c.ParentID]; parent != nil {
			parent.Children = append(parent.Children, node)
		}
	}
	return byID, roots
}

// resourceResponse shapes a ResourceDetail for JSON output.
func resourceResponse(d repository.ResourceDetail, categories map[uint64]*CategoryResponse) ResourceResponse {
	resp := ResourceResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    categories[d.CategoryID],
		Photos:      []PhotoResponse{},
		Options:     []OptionResponse{},
	}
	for _, p := range d.Photos {
		resp.Photos = append(resp.Photos, PhotoResponse{ID: p.ID, ImageURL: p.ImageURL, Position: p.Position})
	}
	for _, o := range d.Options {
		opt := OptionResponse{ID: o.ID, Name: o.Name, Values: []OptionValueResponse{}}
		for _, v := range o.Values {
			opt.Values = append(opt.Values, OptionValueResponse{ID: v.ID, Value: v.Value})
		}
		resp.Options = append(resp.Options, opt)
	}
	return resp
}
