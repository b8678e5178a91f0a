package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rturenne/catalog-reservation/internal/model"
	"github.com/rturenne/catalog-reservation/internal/repository"
)

type fakeCategories struct{ cats []model.Category }

func (f *fakeCategories) ListActive(context.Context) ([]model.Category, error) {
	return f.cats, nil
}

type fakeResources struct{ details []repository.ResourceDetail }

func (f *fakeResources) ListActive(_ context.Context, categorySlug string) ([]repository.ResourceDetail, error) {
	if categorySlug == "" {
		return f.details, nil
	}
	// The fake narrows by category id 1 standing in for the slug filter.
	var out []repository.ResourceDetail
	for _, d := range f.details {
		if d.CategoryID == 1 {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeResources) GetActive(_ context.Context, id uint64) (repository.ResourceDetail, error) {
	for _, d := range f.details {
		if d.ID == id {
			return d, nil
		}
	}
	return repository.ResourceDetail{}, repository.ErrResourceNotFound
}

func ptr(v uint64) *uint64 { return &v }

func testCatalog() *CatalogHandler {
	cats := []model.Category{
		{ID: 1, Name: "Boats", Slug: "boats"},
		{ID: 2, Name: "Rooms", Slug: "rooms"},
		{ID: 3, Name: "Canoes", Slug: "canoes", ParentID: ptr(1)},
		{ID: 4, Name: "Kayaks", Slug: "kayaks", ParentID: ptr(1)},
		{ID: 5, Name: "Orphan", Slug: "orphan", ParentID: ptr(99)}, // inactive parent
	}
	resources := []repository.ResourceDetail{
		{
			Resource: model.Resource{ID: 1, CategoryID: 1, Name: "Red Canoe", Description: "Two seats", IsActive: true},
			Photos: []model.ResourcePhoto{
				{ID: 1, ResourceID: 1, ImageURL: "https://cdn.example.com/canoe-front.jpg", Position: 0},
				{ID: 2, ResourceID: 1, ImageURL: "https://cdn.example.com/canoe-side.jpg", Position: 1},
			},
			Options: []repository.OptionWithValues{
				{
					ResourceOption: model.ResourceOption{ID: 1, ResourceID: 1, Name: "duration"},
					Values: []model.ResourceOptionValue{
						{ID: 10, OptionID: 1, Value: "half-day"},
						{ID: 11, OptionID: 1, Value: "full-day"},
					},
				},
			},
		},
		{
			Resource: model.Resource{ID: 2, CategoryID: 2, Name: "Lake Room", IsActive: true},
		},
	}
	return NewCatalogHandler(&fakeCategories{cats: cats}, &fakeResources{details: resources})
}

func TestListCategoriesNestsActiveChildren(t *testing.T) {
	h := testCatalog()
	rec := doJSON(t, h.ListCategories, http.MethodGet, "/categories/", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var roots []CategoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &roots); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2 (orphan of inactive parent dropped)", len(roots))
	}
	var boats *CategoryResponse
	for i := range roots {
		if roots[i].Slug == "boats" {
			boats = &roots[i]
		}
	}
	if boats == nil {
		t.Fatal("boats root missing")
	}
	if len(boats.Children) != 2 {
		t.Errorf("boats children = %d, want 2", len(boats.Children))
	}
	if boats.Parent != nil {
		t.Errorf("root parent = %v, want null", *boats.Parent)
	}
}

func TestListResourcesShape(t *testing.T) {
	h := testCatalog()
	rec := doJSON(t, h.ListResources, http.MethodGet, "/resources/", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp []ResourceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("resources = %d, want 2", len(resp))
	}
	canoe := resp[0]
	if canoe.Category == nil || canoe.Category.Slug != "boats" {
		t.Errorf("category = %+v, want nested boats", canoe.Category)
	}
	if len(canoe.Photos) != 2 || canoe.Photos[0].Position != 0 {
		t.Errorf("photos = %+v, want ordered pair", canoe.Photos)
	}
	if len(canoe.Options) != 1 || len(canoe.Options[0].Values) != 2 {
		t.Errorf("options = %+v", canoe.Options)
	}
	// Empty collections serialize as [], not null.
	room := resp[1]
	if room.Photos == nil || room.Options == nil {
		t.Errorf("empty photo/option lists must serialize as arrays")
	}
}

func TestGetResourceNotFound(t *testing.T) {
	h := testCatalog()
	rec := doJSON(t, h.GetResource, http.MethodGet, "/resources/99/", "", nil, map[string]string{"id": "99"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetResourceDetail(t *testing.T) {
	h := testCatalog()
	rec := doJSON(t, h.GetResource, http.MethodGet, "/resources/1/", "", nil, map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ResourceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "Red Canoe" || resp.Category == nil {
		t.Errorf("response = %+v", resp)
	}
}
