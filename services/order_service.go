package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/metrics"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/repositories"
	"github.com/HSouheill/storefront_backend/utils"
)

type OrderService struct {
	orders   OrderStore
	users    UserStore
	accounts AccountStore
	audit    *AuditLogger
}

func NewOrderService(orders OrderStore, users UserStore, accounts AccountStore, audit *AuditLogger) *OrderService {
	return &OrderService{orders: orders, users: users, accounts: accounts, audit: audit}
}

func newOrderNumber() string {
	return "ORD-" + ulid.Make().String()
}

type checkoutLine struct {
	account models.Account
	qty     int
	amount  decimal.Decimal
}

// Checkout turns cart lines into one order per line. Balance payments are
// debited up front; stock is reserved per line. Any failure after a write
// rolls back what was done so far on a best-effort basis.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID, req models.CheckoutRequest, ip string) (*models.CheckoutResult, error) {
	if !req.PaymentMethod.Valid() {
		return nil, invalid("invalid payment method %q", req.PaymentMethod)
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if user.Status != models.UserActive {
		return nil, fail(ErrForbidden, "account is %s", user.Status)
	}

	quantities, order, err := checkoutItems(req.Items, user.Cart)
	if err != nil {
		return nil, err
	}
	found, err := s.accounts.GetMany(ctx, order)
	if err != nil {
		return nil, storeErr(err, "accounts")
	}
	byID := make(map[primitive.ObjectID]models.Account, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	lines := make([]checkoutLine, 0, len(order))
	total := decimal.Zero
	for _, id := range order {
		a, ok := byID[id]
		if !ok {
			return nil, fail(ErrNotFound, "listing %s not found", id.Hex())
		}
		qty := quantities[id]
		if a.Status != models.AccountAvailable {
			return nil, fail(ErrInsufficientStock, "%s is no longer available", a.Title)
		}
		if a.Stock < qty {
			return nil, fail(ErrInsufficientStock, "only %d of %s left in stock", a.Stock, a.Title)
		}
		amount := lineTotal(a.Price, qty)
		total = total.Add(amount)
		lines = append(lines, checkoutLine{account: a, qty: qty, amount: amount})
	}
	totalAmount := toFloat(total)
	actor := Actor{UserID: userID, Role: user.Role, IP: ip}

	paid := req.PaymentMethod == models.PayWithBalance
	balance := user.Balance
	if paid {
		debited, err := s.users.DebitBalance(ctx, userID, totalAmount)
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit.Warn(ctx, models.LogPayment, actor, "checkout rejected: insufficient balance", map[string]interface{}{"amount": totalAmount, "balance": user.Balance})
			return nil, fail(ErrInsufficientBalance, "balance %.2f does not cover %.2f", user.Balance, totalAmount)
		}
		if err != nil {
			return nil, storeErr(err, "user")
		}
		balance = debited.Balance
	}

	rb := &rollback{svc: s, userID: userID}
	if paid {
		rb.refund = totalAmount
	}

	for _, l := range lines {
		if _, err := s.accounts.ReserveStock(ctx, l.account.ID, l.qty); err != nil {
			rb.run(ctx)
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fail(ErrInsufficientStock, "%s sold out during checkout", l.account.Title)
			}
			return nil, storeErr(err, "listing")
		}
		rb.reserved = append(rb.reserved, l)
	}

	status, payment := models.OrderPending, models.PaymentPending
	if paid {
		status, payment = models.OrderProcessing, models.PaymentPaid
	}
	result := &models.CheckoutResult{Orders: make([]models.Order, 0, len(lines)), TotalAmount: totalAmount}
	for _, l := range lines {
		o := &models.Order{
			OrderNumber:   newOrderNumber(),
			UserID:        userID,
			AccountID:     l.account.ID,
			AccountTitle:  l.account.Title,
			Quantity:      l.qty,
			UnitPrice:     l.account.Price,
			Amount:        toFloat(l.amount),
			Status:        status,
			PaymentStatus: payment,
			PaymentMethod: req.PaymentMethod,
			DeliveryInfo:  l.account.DeliveryInfo,
		}
		if err := s.orders.Create(ctx, o); err != nil {
			rb.run(ctx)
			return nil, storeErr(err, "order")
		}
		rb.orders = append(rb.orders, o.ID)
		result.Orders = append(result.Orders, *o)
	}

	if _, err := s.users.PullCartItems(ctx, userID, order); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("userId", userID.Hex()).Msg("checkout: failed to clear cart lines")
	}

	result.Balance = balance
	metrics.CheckoutOrders.WithLabelValues(string(req.PaymentMethod)).Add(float64(len(result.Orders)))
	numbers := make([]string, 0, len(result.Orders))
	for _, o := range result.Orders {
		numbers = append(numbers, o.OrderNumber)
	}
	category := models.LogOrder
	if paid {
		category = models.LogPayment
	}
	s.audit.Info(ctx, category, actor, "checkout completed", map[string]interface{}{
		"orders":        strings.Join(numbers, ","),
		"amount":        totalAmount,
		"paymentMethod": string(req.PaymentMethod),
	})
	return result, nil
}

// checkoutItems merges duplicate lines and keeps first-seen order. Explicit
// items win over the stored cart.
func checkoutItems(items []models.CartItemRequest, cart []models.CartItem) (map[primitive.ObjectID]int, []primitive.ObjectID, error) {
	quantities := map[primitive.ObjectID]int{}
	var order []primitive.ObjectID
	add := func(id primitive.ObjectID, qty int) {
		if _, seen := quantities[id]; !seen {
			order = append(order, id)
		}
		quantities[id] += qty
	}
	if len(items) > 0 {
		for _, it := range items {
			id, err := ParseID(it.ProductID, "product")
			if err != nil {
				return nil, nil, err
			}
			qty := it.Quantity
			if qty == 0 {
				qty = 1
			}
			if qty < 0 {
				return nil, nil, invalid("quantity must be positive")
			}
			add(id, qty)
		}
	} else {
		for _, it := range cart {
			if it.Quantity > 0 {
				add(it.ProductID, it.Quantity)
			}
		}
	}
	if len(order) == 0 {
		return nil, nil, invalid("cart is empty")
	}
	return quantities, order, nil
}

type rollback struct {
	svc      *OrderService
	userID   primitive.ObjectID
	refund   float64
	reserved []checkoutLine
	orders   []primitive.ObjectID
}

func (r *rollback) run(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	log := logging.Ctx(ctx)
	for _, id := range r.orders {
		if err := r.svc.orders.Delete(ctx, id); err != nil {
			log.Error().Err(err).Str("orderId", id.Hex()).Msg("checkout rollback: failed to delete order")
		}
	}
	for _, l := range r.reserved {
		if err := r.svc.accounts.ReleaseStock(ctx, l.account.ID, l.qty); err != nil {
			log.Error().Err(err).Str("accountId", l.account.ID.Hex()).Msg("checkout rollback: failed to release stock")
		}
	}
	if r.refund > 0 {
		if err := r.svc.users.CreditBalance(ctx, r.userID, r.refund); err != nil {
			log.Error().Err(err).Str("userId", r.userID.Hex()).Float64("amount", r.refund).Msg("checkout rollback: failed to refund balance")
		}
	}
}

func (s *OrderService) ListMine(ctx context.Context, userID primitive.ObjectID, p models.Pagination) (models.Page[models.Order], error) {
	return s.List(ctx, models.OrderFilter{UserID: userID, Pagination: p})
}

func (s *OrderService) List(ctx context.Context, f models.OrderFilter) (models.Page[models.Order], error) {
	if f.Status != "" && !f.Status.Valid() {
		return models.Page[models.Order]{}, invalid("invalid status %q", f.Status)
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return models.Page[models.Order]{}, invalid("invalid paymentStatus %q", f.PaymentStatus)
	}
	f.Pagination = f.Pagination.Normalize()
	items, total, err := s.orders.List(ctx, f)
	if err != nil {
		return models.Page[models.Order]{}, storeErr(err, "orders")
	}
	return models.NewPage(items, total, f.Pagination), nil
}

// Get returns the order if the viewer owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID, viewer Actor) (*models.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if viewer.Role != models.RoleAdmin && o.UserID != viewer.UserID {
		return nil, fail(ErrNotFound, "order not found")
	}
	return o, nil
}

// QRCode renders the order number as a PNG for the receipt.
func (s *OrderService) QRCode(ctx context.Context, id primitive.ObjectID, viewer Actor) ([]byte, error) {
	o, err := s.Get(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	png, err := utils.QRCodePNG(o.OrderNumber, 256)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

func (s *OrderService) Update(ctx context.Context, id primitive.ObjectID, patch models.Patch, actor Actor) (*models.Order, error) {
	var upd models.OrderUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, invalid("invalid status %q", *upd.Status)
	}
	if upd.PaymentStatus != nil && !upd.PaymentStatus.Valid() {
		return nil, invalid("invalid paymentStatus %q", *upd.PaymentStatus)
	}
	set, err := toSet(upd)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	category := models.LogOrder
	if upd.PaymentStatus != nil {
		category = models.LogPayment
	}
	s.audit.Info(ctx, category, actor, "order updated", map[string]interface{}{"orderId": id.Hex(), "orderNumber": o.OrderNumber, "fields": fieldNames(patch)})
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return storeErr(err, "order")
	}
	s.audit.Info(ctx, models.LogOrder, actor, "order deleted", map[string]interface{}{"orderId": id.Hex()})
	return nil
}
