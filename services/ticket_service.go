package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/utils"
)

// TicketService handles support tickets for customers and admins.
type TicketService struct {
	store  TicketStore
	users  UserStore
	email  *EmailChannel
	audit  *AuditLogger
}

// NewTicketService mails admin replies through email when it is non-nil.
func NewTicketService(store TicketStore, users UserStore, email *EmailChannel, audit *AuditLogger) *TicketService {
	return &TicketService{store: store, users: users, email: email, audit: audit}
}

// newTicketNumber falls back to a ULID when the random source fails.
func newTicketNumber() string {
	if code, err := utils.GenerateCode(utils.TicketPrefix); err == nil {
		return code
	}
	return string(utils.TicketPrefix) + "-" + ulid.Make().String()
}

func (s *TicketService) Create(ctx context.Context, userID primitive.ObjectID, req models.CreateTicketRequest) (*models.Ticket, error) {
	subject := utils.SanitizeInput(req.Subject)
	body := utils.SanitizeInput(req.Message)
	if subject == "" || body == "" {
		return nil, invalid("subject and message are required")
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("invalid priority %q", priority)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "general"
	}
	now := time.Now().UTC()
	t := &models.Ticket{
		TicketNumber: newTicketNumber(),
		UserID:       userID,
		Subject:      subject,
		Category:     category,
		OrderID:      strings.TrimSpace(req.OrderID),
		Status:       models.TicketOpen,
		Priority:     priority,
		Messages: []models.TicketMessage{{
			AuthorID:   userID,
			AuthorRole: models.RoleUser,
			Body:       body,
			CreatedAt:  now,
		}},
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, storeErr(err, "ticket")
	}
	return t, nil
}

func (s *TicketService) List(ctx context.Context, f models.TicketFilter) (models.Page[models.Ticket], error) {
	if f.Status != "" && !f.Status.Valid() {
		return models.Page[models.Ticket]{}, invalid("invalid status %q", f.Status)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return models.Page[models.Ticket]{}, invalid("invalid priority %q", f.Priority)
	}
	f.Pagination = f.Pagination.Normalize()
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return models.Page[models.Ticket]{}, storeErr(err, "tickets")
	}
	return models.NewPage(items, total, f.Pagination), nil
}

// Get hides other customers' tickets behind a 404.
func (s *TicketService) Get(ctx context.Context, id primitive.ObjectID, viewer Actor) (*models.Ticket, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "ticket")
	}
	if viewer.Role != models.RoleAdmin && t.UserID != viewer.UserID {
		return nil, fail(ErrNotFound, "ticket not found")
	}
	return t, nil
}

// AddMessage appends to the thread. Customer replies reopen resolved tickets;
// admin replies move open tickets to in_progress and email the customer.
func (s *TicketService) AddMessage(ctx context.Context, id primitive.ObjectID, req models.TicketMessageRequest, author Actor) (*models.Ticket, error) {
	body := utils.SanitizeInput(req.Body)
	if body == "" {
		return nil, invalid("message body is required")
	}
	t, err := s.Get(ctx, id, author)
	if err != nil {
		return nil, err
	}
	if t.Status == models.TicketClosed && author.Role != models.RoleAdmin {
		return nil, fail(ErrConflict, "ticket is closed")
	}

	var status models.TicketStatus
	switch {
	case author.Role == models.RoleAdmin && t.Status == models.TicketOpen:
		status = models.TicketInProgress
	case author.Role != models.RoleAdmin && t.Status == models.TicketResolved:
		status = models.TicketOpen
	}
	role := author.Role
	if role == "" {
		role = models.RoleUser
	}
	msg := models.TicketMessage{AuthorID: author.UserID, AuthorRole: role, Body: body, CreatedAt: time.Now().UTC()}
	updated, err := s.store.AppendMessage(ctx, id, msg, status)
	if err != nil {
		return nil, storeErr(err, "ticket")
	}

	if author.Role == models.RoleAdmin {
		s.audit.Info(ctx, models.LogAdmin, author, "support reply sent", map[string]interface{}{"ticketId": id.Hex(), "ticketNumber": t.TicketNumber})
		s.emailCustomer(ctx, updated, body)
	}
	return updated, nil
}

func (s *TicketService) emailCustomer(ctx context.Context, t *models.Ticket, body string) {
	if s.email == nil {
		return
	}
	u, err := s.users.Get(ctx, t.UserID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("ticketId", t.ID.Hex()).Msg("support reply: customer lookup failed")
		return
	}
	subject := fmt.Sprintf("[%s] %s", t.TicketNumber, t.Subject)
	if err := s.email.Send(ctx, u.Email, subject, body); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("ticketId", t.ID.Hex()).Msg("support reply email failed")
	}
}

func (s *TicketService) Update(ctx context.Context, id primitive.ObjectID, patch models.Patch, actor Actor) (*models.Ticket, error) {
	var upd models.TicketUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, invalid("invalid status %q", *upd.Status)
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return nil, invalid("invalid priority %q", *upd.Priority)
	}
	set, err := toSet(upd)
	if err != nil {
		return nil, err
	}
	t, err := s.store.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, "ticket")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "ticket updated", map[string]interface{}{"ticketId": id.Hex(), "fields": fieldNames(patch)})
	return t, nil
}

func (s *TicketService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(err, "ticket")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "ticket deleted", map[string]interface{}{"ticketId": id.Hex()})
	return nil
}
