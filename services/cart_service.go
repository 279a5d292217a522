package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
)

// CartService manages the server-side cart stored on the user document.
type CartService struct {
	users    UserStore
	accounts AccountStore
	audit    *AuditLogger
	now      func() time.Time
}

func NewCartService(users UserStore, accounts AccountStore, audit *AuditLogger) *CartService {
	return &CartService{users: users, accounts: accounts, audit: audit, now: time.Now}
}

func (s *CartService) View(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return s.view(ctx, u)
}

func (s *CartService) view(ctx context.Context, u *models.User) (*models.CartView, error) {
	listings, err := s.listingsFor(ctx, u.Cart)
	if err != nil {
		return nil, err
	}
	view := buildCartView(u.ID, u.Cart, listings)
	return &view, nil
}

func (s *CartService) listingsFor(ctx context.Context, items []models.CartItem) (map[primitive.ObjectID]models.Account, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	accounts, err := s.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "accounts")
	}
	out := make(map[primitive.ObjectID]models.Account, len(accounts))
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out, nil
}

// Add puts qty units of a listing in the cart, incrementing an existing line.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, req models.CartItemRequest) (*models.CartView, error) {
	productID, err := ParseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, invalid("quantity must be positive")
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}

	cart := append([]models.CartItem(nil), u.Cart...)
	found := false
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity += qty
			qty = cart[i].Quantity
			found = true
			break
		}
	}
	if err := s.checkAvailable(ctx, productID, qty); err != nil {
		return nil, err
	}
	if !found {
		cart = append(cart, models.CartItem{ProductID: productID, Quantity: qty, AddedAt: s.now().UTC()})
	}
	return s.save(ctx, userID, cart)
}

// Set replaces the quantity of a line; zero removes it.
func (s *CartService) Set(ctx context.Context, userID primitive.ObjectID, req models.CartItemRequest) (*models.CartView, error) {
	productID, err := ParseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	if req.Quantity < 0 {
		return nil, invalid("quantity must not be negative")
	}
	if req.Quantity == 0 {
		return s.Remove(ctx, userID, productID)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if err := s.checkAvailable(ctx, productID, req.Quantity); err != nil {
		return nil, err
	}
	cart := append([]models.CartItem(nil), u.Cart...)
	found := false
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, models.CartItem{ProductID: productID, Quantity: req.Quantity, AddedAt: s.now().UTC()})
	}
	return s.save(ctx, userID, cart)
}

func (s *CartService) checkAvailable(ctx context.Context, productID primitive.ObjectID, qty int) error {
	a, err := s.accounts.Get(ctx, productID)
	if err != nil {
		return storeErr(err, "listing")
	}
	if a.Status != models.AccountAvailable {
		return fail(ErrConflict, "%s is not available", a.Title)
	}
	if a.Stock < qty {
		return fail(ErrInsufficientStock, "only %d of %s left in stock", a.Stock, a.Title)
	}
	return nil
}

func (s *CartService) save(ctx context.Context, userID primitive.ObjectID, cart []models.CartItem) (*models.CartView, error) {
	u, err := s.users.SetCart(ctx, userID, cart)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return s.view(ctx, u)
}

// Remove drops a line. Removing a line that is not in the cart is a no-op
// that returns the unchanged cart.
func (s *CartService) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartView, error) {
	u, err := s.users.PullCartItems(ctx, userID, []primitive.ObjectID{productID})
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return s.view(ctx, u)
}

func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	return s.save(ctx, userID, []models.CartItem{})
}

// buildCartView joins cart items with their listings. Lines whose listing is
// gone are left out of both the lines and the stats.
func buildCartView(userID primitive.ObjectID, items []models.CartItem, listings map[primitive.ObjectID]models.Account) models.CartView {
	lines := make([]models.CartLine, 0, len(items))
	for _, it := range items {
		a, ok := listings[it.ProductID]
		if !ok {
			continue
		}
		image := ""
		if len(a.Images) > 0 {
			image = a.Images[0]
		}
		lines = append(lines, models.CartLine{
			ProductID: it.ProductID,
			Name:      a.Title,
			Price:     a.Price,
			Quantity:  it.Quantity,
			LineTotal: toFloat(lineTotal(a.Price, it.Quantity)),
			Category:  a.Category,
			Game:      a.Game,
			Rank:      a.Rank,
			Level:     a.Level,
			Image:     image,
			Status:    a.Status,
			AddedAt:   it.AddedAt,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].AddedAt.Equal(lines[j].AddedAt) {
			return lines[i].ProductID.Hex() < lines[j].ProductID.Hex()
		}
		return lines[i].AddedAt.Before(lines[j].AddedAt)
	})
	return models.CartView{UserID: userID, Items: lines, Stats: cartStats(lines)}
}

func cartStats(lines []models.CartLine) models.CartStats {
	stats := models.CartStats{Categories: []string{}, Games: []string{}}
	total := decimal.Zero
	var categories, games []string
	for _, l := range lines {
		stats.TotalItems += l.Quantity
		total = total.Add(lineTotal(l.Price, l.Quantity))
		categories = append(categories, l.Category)
		games = append(games, l.Game)
		if stats.OldestItem == nil || l.AddedAt.Before(*stats.OldestItem) {
			t := l.AddedAt
			stats.OldestItem = &t
		}
	}
	stats.TotalValue = toFloat(total)
	stats.Categories = distinct(categories)
	stats.Games = distinct(games)
	return stats
}
