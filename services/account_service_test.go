package services

import (
	"context"
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/testutil"
)

func patchOf(t *testing.T, raw string) models.Patch {
	t.Helper()
	var p models.Patch
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("bad patch %s: %v", raw, err)
	}
	return p
}

func TestAccountCreateDefaults(t *testing.T) {
	svc := NewAccountService(testutil.NewAccounts(), NewAuditLogger(testutil.NewLogs()))

	a, err := svc.Create(context.Background(), models.CreateAccountRequest{
		Title: " Valorant Immortal ", Category: "valorant",
		OriginalPrice: 200, DiscountPercentage: 25, IsOnSale: true,
	}, Actor{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Title != "Valorant Immortal" || a.Stock != 1 || a.Status != models.AccountAvailable {
		t.Errorf("account = %+v", a)
	}
	if a.Price != 150 || a.OriginalPrice != 200 {
		t.Errorf("price = %v original = %v", a.Price, a.OriginalPrice)
	}
	if a.Images == nil {
		t.Error("images should be an empty slice")
	}

	zero := 0
	b, err := svc.Create(context.Background(), models.CreateAccountRequest{Title: "x", Category: "c", Price: 5, Stock: &zero}, Actor{})
	if err != nil {
		t.Fatalf("create with zero stock: %v", err)
	}
	if b.Stock != 0 {
		t.Errorf("explicit zero stock became %d", b.Stock)
	}

	_, err = svc.Create(context.Background(), models.CreateAccountRequest{Title: "x", Category: "c", Status: "gone"}, Actor{})
	wantKind(t, err, ErrValidation)
}

func TestAccountUpdate(t *testing.T) {
	seed := listing("valorant", 100, 1)
	seed.OriginalPrice = 100
	store := testutil.NewAccounts(seed)
	svc := NewAccountService(store, nil)
	ctx := context.Background()

	a, err := svc.Update(ctx, seed.ID, patchOf(t, `{"isOnSale":true,"discountPercentage":10}`), Actor{})
	if err != nil {
		t.Fatalf("update pricing: %v", err)
	}
	if a.Price != 90 || a.OriginalPrice != 100 || !a.IsOnSale {
		t.Errorf("after sale: price=%v orig=%v", a.Price, a.OriginalPrice)
	}

	a, err = svc.Update(ctx, seed.ID, patchOf(t, `{"status":"suspended"}`), Actor{})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if a.Status != models.AccountSuspended || a.Price != 90 || a.Title != "valorant" {
		t.Errorf("status-only update touched other fields: %+v", a)
	}

	_, err = svc.Update(ctx, seed.ID, patchOf(t, `{"colour":"red"}`), Actor{})
	wantKind(t, err, ErrValidation)

	_, err = svc.Update(ctx, seed.ID, patchOf(t, `{"discountPercentage":150}`), Actor{})
	wantKind(t, err, ErrValidation)

	_, err = svc.Update(ctx, primitive.NewObjectID(), patchOf(t, `{"title":"x"}`), Actor{})
	wantKind(t, err, ErrNotFound)
}

func TestAccountDelete(t *testing.T) {
	seed := listing("valorant", 100, 1)
	svc := NewAccountService(testutil.NewAccounts(seed), nil)
	ctx := context.Background()

	if err := svc.Delete(ctx, seed.ID, Actor{}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	wantKind(t, svc.Delete(ctx, seed.ID, Actor{}), ErrNotFound)
}

func TestAccountList(t *testing.T) {
	a := listing("valorant", 100, 1)
	b := listing("fortnite", 20, 1)
	b.Status = models.AccountSold
	svc := NewAccountService(testutil.NewAccounts(a, b), nil)

	page, err := svc.List(context.Background(), models.AccountFilter{Status: models.AccountAvailable})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != a.ID || page.Limit != models.DefaultPageSize {
		t.Errorf("page = %+v", page)
	}
}
