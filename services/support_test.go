package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/testutil"
)

func TestTicketLifecycle(t *testing.T) {
	u := customer("ada", 0)
	admin := Actor{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	owner := Actor{UserID: u.ID, Role: models.RoleUser}
	mailer := &fakeMailer{}
	svc := NewTicketService(testutil.NewTickets(), testutil.NewUsers(u), NewEmailChannel(mailer), nil)
	ctx := context.Background()

	tk, err := svc.Create(ctx, u.ID, models.CreateTicketRequest{Subject: "Login broken", Message: "Password rejected"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(tk.TicketNumber, "TKT-") || tk.Priority != models.PriorityMedium || tk.Category != "general" {
		t.Errorf("ticket = %+v", tk)
	}
	if len(tk.Messages) != 1 || tk.Status != models.TicketOpen {
		t.Fatalf("ticket = %+v", tk)
	}

	_, err = svc.Get(ctx, tk.ID, Actor{UserID: primitive.NewObjectID(), Role: models.RoleUser})
	wantKind(t, err, ErrNotFound)

	tk, err = svc.AddMessage(ctx, tk.ID, models.TicketMessageRequest{Body: "Try a reset"}, admin)
	if err != nil {
		t.Fatalf("admin reply: %v", err)
	}
	if tk.Status != models.TicketInProgress || len(tk.Messages) != 2 || tk.Messages[1].AuthorRole != models.RoleAdmin {
		t.Errorf("after admin reply = %+v", tk)
	}
	if len(mailer.to) != 1 || mailer.to[0] != u.Email || mailer.noDeadlines != 0 {
		t.Errorf("mail to = %v, unbounded sends = %d", mailer.to, mailer.noDeadlines)
	}

	if _, err := svc.Update(ctx, tk.ID, patchOf(t, `{"status":"resolved"}`), admin); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	tk, err = svc.AddMessage(ctx, tk.ID, models.TicketMessageRequest{Body: "Still broken"}, owner)
	if err != nil {
		t.Fatalf("customer reply: %v", err)
	}
	if tk.Status != models.TicketOpen {
		t.Errorf("customer reply did not reopen: %s", tk.Status)
	}

	if _, err := svc.Update(ctx, tk.ID, patchOf(t, `{"status":"closed"}`), admin); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err = svc.AddMessage(ctx, tk.ID, models.TicketMessageRequest{Body: "hello?"}, owner)
	wantKind(t, err, ErrConflict)

	mine, err := svc.List(ctx, models.TicketFilter{UserID: u.ID})
	if err != nil || mine.Total != 1 {
		t.Fatalf("list = %+v, err %v", mine, err)
	}
}

func TestBlogPublishing(t *testing.T) {
	svc := NewBlogService(testutil.NewBlog(), nil)
	ctx := context.Background()

	draft, err := svc.Create(ctx, models.CreateBlogPostRequest{Title: "Valorant Rank Rehberi", Content: "..."}, Actor{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if draft.Slug != "valorant-rank-rehberi" || draft.Status != models.BlogDraft || draft.PublishedAt != nil {
		t.Errorf("draft = %+v", draft)
	}
	_, err = svc.Read(ctx, draft.Slug)
	wantKind(t, err, ErrNotFound)

	pub, err := svc.Update(ctx, draft.ID, patchOf(t, `{"status":"published"}`), Actor{})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if pub.PublishedAt == nil {
		t.Fatal("publishedAt not set")
	}
	read, err := svc.Read(ctx, draft.Slug)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if read.Views != 1 {
		t.Errorf("views = %d", read.Views)
	}
	page, err := svc.Published(ctx, models.BlogFilter{})
	if err != nil || page.Total != 1 {
		t.Fatalf("published = %+v, err %v", page, err)
	}

	_, err = svc.Create(ctx, models.CreateBlogPostRequest{Title: "Valorant rank rehberi", Content: "dup"}, Actor{})
	wantKind(t, err, ErrConflict)
}

func TestContentKinds(t *testing.T) {
	svc := NewContentService(testutil.NewContent(), nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "banners", false)
	wantKind(t, err, ErrNotFound)

	_, err = svc.Create(ctx, models.ContentSliders, models.ContentItem{Title: "Spring sale"}, Actor{})
	wantKind(t, err, ErrValidation)

	s, err := svc.Create(ctx, models.ContentSliders, models.ContentItem{Title: "Spring sale", Image: "https://cdn.example.com/s.png"}, Actor{})
	if err != nil {
		t.Fatalf("create slider: %v", err)
	}
	if _, err := svc.Create(ctx, models.ContentTestimonials, models.ContentItem{Name: "Mert", Content: "Fast", Rating: 5, IsActive: true}, Actor{}); err != nil {
		t.Fatalf("create testimonial: %v", err)
	}

	active, err := svc.List(ctx, models.ContentSliders, true)
	if err != nil || len(active) != 0 {
		t.Fatalf("inactive slider listed: %+v", active)
	}
	if _, err := svc.Update(ctx, models.ContentSliders, s.ID, patchOf(t, `{"isActive":true}`), Actor{}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	active, _ = svc.List(ctx, models.ContentSliders, true)
	if len(active) != 1 {
		t.Fatalf("active sliders = %d", len(active))
	}

	if err := svc.Delete(ctx, models.ContentSliders, s.ID, Actor{}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	wantKind(t, svc.Delete(ctx, models.ContentSliders, s.ID, Actor{}), ErrNotFound)
}

func TestSettingsUpdateMerges(t *testing.T) {
	store := testutil.NewSettings()
	svc := NewSettingsService(store, nil)
	ctx := context.Background()

	st, err := svc.Update(ctx, patchOf(t, `{"currency":"usd","logRetentionDays":7}`), Actor{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if st.Currency != "USD" || st.LogRetentionDays != 7 || st.SiteName != models.DefaultSettings().SiteName {
		t.Errorf("settings = %+v", st)
	}
	if !st.Notifications.CartReminderEnabled {
		t.Error("untouched notification settings were reset")
	}

	_, err = svc.Update(ctx, patchOf(t, `{"currency":"euro"}`), Actor{})
	wantKind(t, err, ErrValidation)
	_, err = svc.Update(ctx, patchOf(t, `{"theme":"dark"}`), Actor{})
	wantKind(t, err, ErrValidation)

	pub, err := svc.Public(ctx)
	if err != nil || pub.Currency != "USD" {
		t.Fatalf("public = %+v, err %v", pub, err)
	}
}

func TestUserAdmin(t *testing.T) {
	users := testutil.NewUsers()
	logs := testutil.NewLogs()
	svc := NewUserService(users, NewAuditLogger(logs))
	admin := Actor{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	ctx := context.Background()

	u, err := svc.Create(ctx, models.CreateUserRequest{Email: "mert@example.com", Password: "s3cretpass", Name: "Mert"}, admin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != models.RoleUser || u.Status != models.UserActive {
		t.Errorf("defaults = %s/%s", u.Role, u.Status)
	}

	u, err = svc.Update(ctx, u.ID, patchOf(t, `{"balance":42.5}`), admin)
	if err != nil {
		t.Fatalf("update balance: %v", err)
	}
	if u.Balance != 42.5 {
		t.Errorf("balance = %v", u.Balance)
	}
	entries := logs.All()
	if last := entries[len(entries)-1]; last.Category != models.LogPayment {
		t.Errorf("balance change logged as %s", last.Category)
	}

	_, err = svc.Update(ctx, u.ID, patchOf(t, `{"role":"root"}`), admin)
	wantKind(t, err, ErrValidation)

	wantKind(t, svc.Delete(ctx, admin.UserID, admin), ErrConflict)
	if err := svc.Delete(ctx, u.ID, admin); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	a := listing("a", 10, 1)
	b := listing("b", 10, 0)
	b.Status = models.AccountSold
	users := testutil.NewUsers(customer("x", 0), customer("y", 0))
	orders := testutil.NewOrders()
	ctx := context.Background()
	_ = orders.Create(ctx, &models.Order{Status: models.OrderCompleted, PaymentStatus: models.PaymentPaid, Amount: 30})
	_ = orders.Create(ctx, &models.Order{Status: models.OrderPending, PaymentStatus: models.PaymentPending, Amount: 99})
	tickets := testutil.NewTickets()
	_ = tickets.Create(ctx, &models.Ticket{Status: models.TicketOpen})
	_ = tickets.Create(ctx, &models.Ticket{Status: models.TicketClosed})

	svc := NewDashboardService(testutil.NewAccounts(a, b), users, orders, tickets)
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.Revenue != 30 || stats.OpenTickets != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AccountsByStatus[models.AccountSold] != 1 || stats.OrdersByStatus[models.OrderPending] != 1 {
		t.Errorf("breakdowns = %+v / %+v", stats.AccountsByStatus, stats.OrdersByStatus)
	}
}

func TestTicketReplyEmailTripsBreaker(t *testing.T) {
	u := customer("ada", 0)
	admin := Actor{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	svc := NewTicketService(testutil.NewTickets(), testutil.NewUsers(u), NewEmailChannel(mailer), nil)
	ctx := context.Background()

	tk, err := svc.Create(ctx, u.ID, models.CreateTicketRequest{Subject: "Refund", Message: "Please"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 8; i++ {
		if _, err := svc.AddMessage(ctx, tk.ID, models.TicketMessageRequest{Body: "Looking into it"}, admin); err != nil {
			t.Fatalf("reply %d: %v", i, err)
		}
	}
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.calls != 5 {
		t.Errorf("smtp called %d times, want 5 before the breaker opens", mailer.calls)
	}
}
