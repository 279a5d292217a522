package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/testutil"
)

type trackingFixture struct {
	svc   *TrackingService
	users *testutil.Users
	notes *testutil.Notifications
}

func newTrackingFixture(accounts []models.Account, users ...models.User) trackingFixture {
	us := testutil.NewUsers(users...)
	as := testutil.NewAccounts(accounts...)
	notes := testutil.NewNotifications()
	carts := NewCartService(us, as, nil)
	svc := NewTrackingService(us, as, notes, carts)
	svc.now = func() time.Time { return t0 }
	return trackingFixture{svc: svc, users: us, notes: notes}
}

func ids(users []models.UserCartSummary) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestTrackingListUsersSortAndFilter(t *testing.T) {
	cheap := listing("cheap", 10, 10)
	pricey := listing("pricey", 300, 10)
	alice := customer("alice", 0, item(cheap, 3, t0.Add(2*time.Hour)))
	bob := customer("Bob", 0, item(pricey, 1, t0.Add(time.Hour)))
	carol := customer("carol", 0)
	carol.LastActivityAt = t0.Add(3 * time.Hour)
	f := newTrackingFixture([]models.Account{cheap, pricey}, alice, bob, carol)
	ctx := context.Background()

	all, err := f.svc.ListUsers(ctx, models.TrackingFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Default is lastActivity desc.
	want := []primitive.ObjectID{carol.ID, alice.ID, bob.ID}
	if got := ids(all); !equalIDs(got, want) {
		t.Fatalf("default order = %v, want %v", got, want)
	}

	yes := true
	withCart, err := f.svc.ListUsers(ctx, models.TrackingFilter{HasCart: &yes, SortBy: models.TrackingSortCartValue})
	if err != nil {
		t.Fatalf("list with cart: %v", err)
	}
	if got := ids(withCart); !equalIDs(got, []primitive.ObjectID{bob.ID, alice.ID}) {
		t.Fatalf("cartValue desc = %v", got)
	}
	if withCart[1].CartValue != 30 || withCart[1].CartItemCount != 3 {
		t.Errorf("alice summary = %+v", withCart[1])
	}

	no := false
	empty, err := f.svc.ListUsers(ctx, models.TrackingFilter{HasCart: &no})
	if err != nil {
		t.Fatalf("list without cart: %v", err)
	}
	if len(empty) != 1 || empty[0].ID != carol.ID {
		t.Fatalf("hasCart=false = %v", ids(empty))
	}

	byName, err := f.svc.ListUsers(ctx, models.TrackingFilter{SortBy: models.TrackingSortName, Order: "asc"})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if got := ids(byName); !equalIDs(got, []primitive.ObjectID{alice.ID, bob.ID, carol.ID}) {
		t.Fatalf("name asc = %v", got)
	}
}

func TestTrackingTiesBreakOnID(t *testing.T) {
	a := customer("a", 0)
	b := customer("b", 0)
	f := newTrackingFixture(nil, a, b)

	for _, order := range []string{"asc", "desc"} {
		got, err := f.svc.ListUsers(context.Background(), models.TrackingFilter{SortBy: models.TrackingSortCartValue, Order: order})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got[0].ID.Hex() > got[1].ID.Hex() {
			t.Errorf("order %s: ties not broken by ascending id", order)
		}
	}
}

func TestTrackingIgnoresMissingListings(t *testing.T) {
	live := listing("live", 20, 1)
	gone := listing("gone", 500, 1)
	u := customer("ada", 0, item(live, 1, t0), item(gone, 2, t0.Add(4*time.Hour)))
	f := newTrackingFixture([]models.Account{live}, u)

	got, err := f.svc.ListUsers(context.Background(), models.TrackingFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].CartItemCount != 1 || got[0].CartValue != 20 {
		t.Fatalf("summary = %+v, want only the live listing counted", got[0])
	}
	// The dangling line still counts as activity.
	if !got[0].LastActivity.Equal(t0.Add(4 * time.Hour)) {
		t.Errorf("lastActivity = %v", got[0].LastActivity)
	}
}

func TestTrackingStats(t *testing.T) {
	a := listing("a", 100, 10)
	u1 := customer("u1", 0, item(a, 2, t0))
	u2 := customer("u2", 0, item(a, 1, t0))
	u3 := customer("u3", 0)
	f := newTrackingFixture([]models.Account{a}, u1, u2, u3)
	ctx := context.Background()

	for i, delivered := range []bool{true, true, false, true} {
		n := &models.Notification{UserID: u1.ID, Type: models.NotificationTypeCartReminder}
		if err := f.notes.Create(ctx, n); err != nil {
			t.Fatal(err)
		}
		if delivered {
			_ = f.notes.MarkDelivered(ctx, n.ID, []string{models.ChannelPush})
		}
		if i == 0 {
			if _, err := f.notes.MarkClicked(ctx, n.ID, u1.ID); err != nil {
				t.Fatal(err)
			}
		}
	}

	stats, err := f.svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 3 || stats.UsersWithCart != 2 || stats.TotalCartItems != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.TotalCartValue != 300 || stats.AverageCartValue != 150 {
		t.Errorf("value = %v avg = %v", stats.TotalCartValue, stats.AverageCartValue)
	}
	if stats.DeliveryRate != 75 || stats.OpenRate != 25 || stats.ClickRate != 25 {
		t.Errorf("rates = %v/%v/%v", stats.DeliveryRate, stats.OpenRate, stats.ClickRate)
	}
}

func TestTrackingSnapshotReportsErrors(t *testing.T) {
	f := newTrackingFixture(nil, customer("ada", 0))
	f.users.AllErr = errors.New("mongo down")

	snap := f.svc.Snapshot(context.Background(), models.TrackingFilter{}, primitive.NilObjectID)
	if snap.Error == "" {
		t.Fatal("expected error in snapshot")
	}
	if snap.Users == nil || len(snap.Users) != 0 {
		t.Fatalf("users = %v, want empty non-nil slice", snap.Users)
	}
	if !snap.GeneratedAt.Equal(t0) {
		t.Errorf("generatedAt = %v", snap.GeneratedAt)
	}
}

func TestTrackingSnapshotSelectedCart(t *testing.T) {
	a := listing("a", 40, 2)
	u := customer("ada", 0, item(a, 2, t0))
	f := newTrackingFixture([]models.Account{a}, u)

	snap := f.svc.Snapshot(context.Background(), models.TrackingFilter{}, u.ID)
	if snap.Error != "" {
		t.Fatalf("unexpected error %q", snap.Error)
	}
	if snap.SelectedCart == nil || snap.SelectedCart.Stats.TotalValue != 80 {
		t.Fatalf("selected cart = %+v", snap.SelectedCart)
	}
}

func equalIDs(a, b []primitive.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
