package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/metrics"
	"github.com/HSouheill/storefront_backend/models"
)

// TrackingService powers the admin cart-tracking screens.
type TrackingService struct {
	users         UserStore
	accounts      AccountStore
	notifications NotificationStore
	carts         *CartService
	now           func() time.Time
}

func NewTrackingService(users UserStore, accounts AccountStore, notifications NotificationStore, carts *CartService) *TrackingService {
	return &TrackingService{users: users, accounts: accounts, notifications: notifications, carts: carts, now: time.Now}
}

// ListUsers returns every user with cart aggregates, filtered and sorted.
func (s *TrackingService) ListUsers(ctx context.Context, f models.TrackingFilter) ([]models.UserCartSummary, error) {
	f = f.Normalize()
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, storeErr(err, "users")
	}
	var items []models.CartItem
	for _, u := range users {
		items = append(items, u.Cart...)
	}
	listings, err := s.carts.listingsFor(ctx, items)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserCartSummary, 0, len(users))
	for _, u := range users {
		sum := summarize(u, listings)
		if f.HasCart != nil && (sum.CartItemCount > 0) != *f.HasCart {
			continue
		}
		out = append(out, sum)
	}
	sortSummaries(out, f.SortBy, f.Order == "asc")
	return out, nil
}

func summarize(u models.User, listings map[primitive.ObjectID]models.Account) models.UserCartSummary {
	sum := models.UserCartSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Status:   u.Status,
		IsOnline: u.IsOnline,
	}
	value := decimal.Zero
	last := u.LastActivityAt
	for _, it := range u.Cart {
		if it.AddedAt.After(last) {
			last = it.AddedAt
		}
		a, ok := listings[it.ProductID]
		if !ok {
			continue
		}
		sum.CartItemCount += it.Quantity
		value = value.Add(lineTotal(a.Price, it.Quantity))
	}
	if last.IsZero() {
		last = u.UpdatedAt
	}
	sum.CartValue = toFloat(value)
	sum.LastActivity = last
	return sum
}

func sortSummaries(users []models.UserCartSummary, sortBy string, asc bool) {
	cmp := func(a, b models.UserCartSummary) int {
		switch sortBy {
		case models.TrackingSortCartValue:
			return compareFloat(a.CartValue, b.CartValue)
		case models.TrackingSortCartItemCount:
			return a.CartItemCount - b.CartItemCount
		case models.TrackingSortName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		default:
			return a.LastActivity.Compare(b.LastActivity)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		c := cmp(users[i], users[j])
		if c == 0 {
			return users[i].ID.Hex() < users[j].ID.Hex()
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *TrackingService) UserCart(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	return s.carts.View(ctx, userID)
}

func (s *TrackingService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartView, error) {
	return s.carts.Remove(ctx, userID, productID)
}

// Stats aggregates carts across users and cart_reminder delivery rates.
func (s *TrackingService) Stats(ctx context.Context) (models.TrackingStats, error) {
	var stats models.TrackingStats
	users, err := s.ListUsers(ctx, models.TrackingFilter{})
	if err != nil {
		return stats, err
	}
	total := decimal.Zero
	for _, u := range users {
		stats.TotalUsers++
		if u.CartItemCount > 0 {
			stats.UsersWithCart++
		}
		stats.TotalCartItems += u.CartItemCount
		total = total.Add(decimal.NewFromFloat(u.CartValue))
	}
	stats.TotalCartValue = toFloat(total)
	if stats.UsersWithCart > 0 {
		stats.AverageCartValue = toFloat(total.Div(decimal.NewFromInt(int64(stats.UsersWithCart))))
	}

	counts, err := s.notifications.Counts(ctx, models.NotificationTypeCartReminder)
	if err != nil {
		return stats, storeErr(err, "notifications")
	}
	stats.Notifications = counts
	stats.DeliveryRate = rate(counts.Delivered, counts.Sent)
	stats.OpenRate = rate(counts.Opened, counts.Sent)
	stats.ClickRate = rate(counts.Clicked, counts.Sent)
	return stats, nil
}

// rate is part/whole as a percentage with two decimals.
func rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return toFloat(decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)))
}

// Snapshot builds one frame of the live feed. Errors are reported inside the
// snapshot with an empty user list.
func (s *TrackingService) Snapshot(ctx context.Context, f models.TrackingFilter, selected primitive.ObjectID) models.TrackingSnapshot {
	snap := models.TrackingSnapshot{Users: []models.UserCartSummary{}, GeneratedAt: s.now().UTC()}
	users, err := s.ListUsers(ctx, f)
	if err != nil {
		if ctx.Err() == nil {
			logging.Ctx(ctx).Error().Err(err).Msg("cart tracking snapshot failed")
		}
		metrics.TrackingSnapshots.WithLabelValues("error").Inc()
		snap.Error = err.Error()
		return snap
	}
	snap.Users = users
	if !selected.IsZero() {
		cart, err := s.carts.View(ctx, selected)
		if err != nil {
			snap.Error = err.Error()
		} else {
			snap.SelectedCart = cart
		}
	}
	metrics.TrackingSnapshots.WithLabelValues("ok").Inc()
	return snap
}
