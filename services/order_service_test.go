package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/testutil"
)

type orderFixture struct {
	svc      *OrderService
	orders   *testutil.Orders
	users    *testutil.Users
	accounts *testutil.Accounts
	logs     *testutil.Logs
}

func newOrderFixture(accounts []models.Account, users ...models.User) orderFixture {
	f := orderFixture{
		orders:   testutil.NewOrders(),
		users:    testutil.NewUsers(users...),
		accounts: testutil.NewAccounts(accounts...),
		logs:     testutil.NewLogs(),
	}
	f.svc = NewOrderService(f.orders, f.users, f.accounts, NewAuditLogger(f.logs))
	return f
}

func TestCheckoutWithBalance(t *testing.T) {
	a := listing("valorant", 100, 2)
	b := listing("fortnite", 50, 5)
	u := customer("ada", 300, item(a, 2, t0), item(b, 1, t0.Add(time.Minute)))
	f := newOrderFixture([]models.Account{a, b}, u)
	ctx := context.Background()

	res, err := f.svc.Checkout(ctx, u.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, "127.0.0.1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(res.Orders) != 2 || res.TotalAmount != 250 || res.Balance != 50 {
		t.Fatalf("result = %+v", res)
	}
	for _, o := range res.Orders {
		if o.Status != models.OrderProcessing || o.PaymentStatus != models.PaymentPaid {
			t.Errorf("order %s status %s/%s", o.OrderNumber, o.Status, o.PaymentStatus)
		}
	}

	sold, _ := f.accounts.Get(ctx, a.ID)
	if sold.Stock != 0 || sold.Status != models.AccountSold || sold.SalesCount != 2 {
		t.Errorf("listing a = stock %d status %s sales %d", sold.Stock, sold.Status, sold.SalesCount)
	}
	after, _ := f.users.Get(ctx, u.ID)
	if len(after.Cart) != 0 {
		t.Errorf("cart not cleared: %+v", after.Cart)
	}
	if got := f.logs.All(); len(got) == 0 || got[len(got)-1].Category != models.LogPayment {
		t.Errorf("expected payment audit entry, got %+v", got)
	}
}

func TestCheckoutInsufficientBalance(t *testing.T) {
	a := listing("valorant", 100, 2)
	u := customer("ada", 99.99, item(a, 1, t0))
	f := newOrderFixture([]models.Account{a}, u)

	_, err := f.svc.Checkout(context.Background(), u.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, "")
	wantKind(t, err, ErrInsufficientBalance)
	if f.orders.Len() != 0 {
		t.Errorf("orders were created")
	}
	after, _ := f.accounts.Get(context.Background(), a.ID)
	if after.Stock != 2 {
		t.Errorf("stock changed to %d", after.Stock)
	}
}

func TestCheckoutCardIsPending(t *testing.T) {
	a := listing("valorant", 100, 2)
	u := customer("ada", 0)
	f := newOrderFixture([]models.Account{a}, u)

	res, err := f.svc.Checkout(context.Background(), u.ID, models.CheckoutRequest{
		PaymentMethod: models.PayWithCard,
		Items:         []models.CartItemRequest{{ProductID: a.ID.Hex(), Quantity: 1}, {ProductID: a.ID.Hex(), Quantity: 1}},
	}, "")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(res.Orders) != 1 || res.Orders[0].Quantity != 2 {
		t.Fatalf("duplicate lines not merged: %+v", res.Orders)
	}
	if res.Orders[0].Status != models.OrderPending || res.Orders[0].PaymentStatus != models.PaymentPending {
		t.Errorf("status = %s/%s", res.Orders[0].Status, res.Orders[0].PaymentStatus)
	}
}

func TestCheckoutRejects(t *testing.T) {
	a := listing("valorant", 100, 1)
	suspended := customer("sus", 1000, item(a, 1, t0))
	suspended.Status = models.UserSuspended
	empty := customer("empty", 1000)
	greedy := customer("greedy", 1000, item(a, 2, t0))
	f := newOrderFixture([]models.Account{a}, suspended, empty, greedy)
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, suspended.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, "")
	wantKind(t, err, ErrForbidden)

	_, err = f.svc.Checkout(ctx, empty.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, "")
	wantKind(t, err, ErrValidation)

	_, err = f.svc.Checkout(ctx, greedy.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, "")
	wantKind(t, err, ErrInsufficientStock)

	_, err = f.svc.Checkout(ctx, greedy.ID, models.CheckoutRequest{PaymentMethod: "iou"}, "")
	wantKind(t, err, ErrValidation)
}

func TestCheckoutRollsBack(t *testing.T) {
	a := listing("valorant", 100, 3)
	b := listing("fortnite", 50, 3)
	u := customer("ada", 500, item(a, 1, t0), item(b, 1, t0))
	f := newOrderFixture([]models.Account{a, b}, u)
	f.orders.FailOn = 2
	f.orders.CreateErr = errors.New("write conflict")
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, u.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if f.orders.Len() != 0 {
		t.Errorf("%d orders left after rollback", f.orders.Len())
	}
	after, _ := f.users.Get(ctx, u.ID)
	if after.Balance != 500 {
		t.Errorf("balance = %v, want refund to 500", after.Balance)
	}
	if len(after.Cart) != 2 {
		t.Errorf("cart changed: %+v", after.Cart)
	}
	for _, id := range []primitive.ObjectID{a.ID, b.ID} {
		acc, _ := f.accounts.Get(ctx, id)
		if acc.Stock != 3 || acc.SalesCount != 0 {
			t.Errorf("%s stock=%d sales=%d", acc.Title, acc.Stock, acc.SalesCount)
		}
	}
}

// suspendingOrders suspends a listing and then fails, like an admin acting
// while a checkout is in progress.
type suspendingOrders struct {
	*testutil.Orders
	accounts *testutil.Accounts
	listing  primitive.ObjectID
}

func (s suspendingOrders) Create(ctx context.Context, _ *models.Order) error {
	if _, err := s.accounts.Update(ctx, s.listing, bson.M{"status": models.AccountSuspended}); err != nil {
		return err
	}
	return errors.New("write conflict")
}

func TestCheckoutRollbackKeepsAdminStatus(t *testing.T) {
	a := listing("valorant", 100, 1)
	u := customer("ada", 500, item(a, 1, t0))
	f := newOrderFixture([]models.Account{a}, u)
	orders := suspendingOrders{Orders: f.orders, accounts: f.accounts, listing: a.ID}
	svc := NewOrderService(orders, f.users, f.accounts, NewAuditLogger(f.logs))
	ctx := context.Background()

	if _, err := svc.Checkout(ctx, u.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, ""); err == nil {
		t.Fatal("expected error")
	}
	acc, _ := f.accounts.Get(ctx, a.ID)
	if acc.Status != models.AccountSuspended || acc.Stock != 1 || acc.SalesCount != 0 {
		t.Errorf("after rollback status=%s stock=%d sales=%d, want suspended 1 0", acc.Status, acc.Stock, acc.SalesCount)
	}
	after, _ := f.users.Get(ctx, u.ID)
	if after.Balance != 500 {
		t.Errorf("balance = %v, want 500", after.Balance)
	}
}

func TestOrderVisibility(t *testing.T) {
	a := listing("valorant", 10, 5)
	owner := customer("owner", 100, item(a, 1, t0))
	other := customer("other", 0)
	f := newOrderFixture([]models.Account{a}, owner, other)
	ctx := context.Background()

	res, err := f.svc.Checkout(ctx, owner.ID, models.CheckoutRequest{PaymentMethod: models.PayWithBalance}, "")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	id := res.Orders[0].ID

	if _, err := f.svc.Get(ctx, id, Actor{UserID: owner.ID, Role: models.RoleUser}); err != nil {
		t.Errorf("owner get: %v", err)
	}
	_, err = f.svc.Get(ctx, id, Actor{UserID: other.ID, Role: models.RoleUser})
	wantKind(t, err, ErrNotFound)
	if _, err := f.svc.Get(ctx, id, Actor{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}); err != nil {
		t.Errorf("admin get: %v", err)
	}

	png, err := f.svc.QRCode(ctx, id, Actor{UserID: owner.ID})
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("not a png")
	}

	mine, err := f.svc.ListMine(ctx, owner.ID, models.Pagination{})
	if err != nil || mine.Total != 1 {
		t.Fatalf("mine = %+v, err %v", mine, err)
	}
}
