package services

import (
	"context"
	"testing"

	"github.com/HSouheill/storefront_backend/cache"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/testutil"
)

func TestCategoryCreate(t *testing.T) {
	svc := NewCategoryService(testutil.NewCategories(), cache.NewMemory(), nil)
	ctx := context.Background()
	inactive := false

	c, err := svc.Create(ctx, models.CreateCategoryRequest{
		Title: "Valorant Hesapları",
		Type:  models.CategoryTypeAccount,
		Subcategories: []models.CreateSubcategoryRequest{
			{Name: "Immortal"},
			{Name: "Iron", IsActive: &inactive},
		},
	}, Actor{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Slug != "valorant-hesaplari" || c.Status != models.CategoryActive {
		t.Errorf("slug=%q status=%q", c.Slug, c.Status)
	}
	if len(c.Subcategories) != 2 || c.Subcategories[0].Slug != "immortal" || c.Subcategories[1].IsActive {
		t.Errorf("subcategories = %+v", c.Subcategories)
	}

	_, err = svc.Create(ctx, models.CreateCategoryRequest{Title: "Valorant hesapları", Type: models.CategoryTypeAccount}, Actor{})
	wantKind(t, err, ErrConflict)

	_, err = svc.Create(ctx, models.CreateCategoryRequest{Title: "Keys", Type: "bundle"}, Actor{})
	wantKind(t, err, ErrValidation)
}

func TestCategoryPublicCacheInvalidation(t *testing.T) {
	store := testutil.NewCategories()
	svc := NewCategoryService(store, cache.NewMemory(), nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, models.CreateCategoryRequest{Title: "Steam", Type: models.CategoryTypeLicense}, Actor{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := svc.Public(ctx, models.CategoryTypeLicense)
		if err != nil || len(got) != 1 {
			t.Fatalf("public = %v, err %v", got, err)
		}
	}
	if store.Lists != 1 {
		t.Fatalf("store hit %d times, want cached after first", store.Lists)
	}

	if _, err := svc.Update(ctx, c.ID, patchOf(t, `{"status":"inactive"}`), Actor{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Public(ctx, models.CategoryTypeLicense)
	if err != nil {
		t.Fatalf("public: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("inactive category still served: %+v", got)
	}
}

func TestCategorySubcategories(t *testing.T) {
	svc := NewCategoryService(testutil.NewCategories(), nil, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, models.CreateCategoryRequest{Title: "LoL", Type: models.CategoryTypeAccount}, Actor{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c, err = svc.AddSubcategory(ctx, c.ID, models.CreateSubcategoryRequest{Name: "Smurf"}, Actor{})
	if err != nil || len(c.Subcategories) != 1 {
		t.Fatalf("add = %+v, err %v", c, err)
	}
	subID := c.Subcategories[0].ID

	c, err = svc.UpdateSubcategory(ctx, c.ID, subID, patchOf(t, `{"name":"Smurf EUW","isActive":false}`), Actor{})
	if err != nil {
		t.Fatalf("update sub: %v", err)
	}
	if c.Subcategories[0].Name != "Smurf EUW" || c.Subcategories[0].IsActive {
		t.Errorf("sub = %+v", c.Subcategories[0])
	}
	public, err := svc.Public(ctx, "")
	if err != nil || len(public) != 1 || len(public[0].Subcategories) != 0 {
		t.Fatalf("public subcategories should hide inactive: %+v", public)
	}

	c, err = svc.RemoveSubcategory(ctx, c.ID, subID, Actor{})
	if err != nil || len(c.Subcategories) != 0 {
		t.Fatalf("remove = %+v, err %v", c, err)
	}
	_, err = svc.RemoveSubcategory(ctx, c.ID, subID, Actor{})
	wantKind(t, err, ErrNotFound)
}
