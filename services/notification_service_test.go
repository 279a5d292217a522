package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/testutil"
)

type notifyFixture struct {
	svc    *NotificationService
	store  *testutil.Notifications
	pusher *fakePusher
	fcm    *fakeFCM
	mailer *fakeMailer
}

func newNotifyFixture(settings *testutil.Settings, users ...models.User) notifyFixture {
	return newNotifyFixtureWith(settings, nil, users...)
}

func newNotifyFixtureWith(settings *testutil.Settings, listings []models.Account, users ...models.User) notifyFixture {
	userStore := testutil.NewUsers(users...)
	carts := NewCartService(userStore, testutil.NewAccounts(listings...), nil)
	f := notifyFixture{
		store:  testutil.NewNotifications(),
		pusher: &fakePusher{connected: map[primitive.ObjectID]bool{}},
		fcm:    &fakeFCM{},
		mailer: &fakeMailer{},
	}
	f.svc = NewNotificationService(f.store, userStore, settings, carts, NewAuditLogger(testutil.NewLogs()),
		NewWebSocketChannel(f.pusher), NewPushChannel(f.fcm), NewEmailChannel(f.mailer))
	return f
}

func TestCartReminderUsesDefaults(t *testing.T) {
	u := customer("ada", 0)
	u.FCMToken = "device-token"
	f := newNotifyFixture(testutil.NewSettings(), u)
	f.pusher.connected[u.ID] = true

	n, err := f.svc.SendCartReminder(context.Background(), models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	def := models.DefaultSettings().Notifications
	if n.Title != def.DefaultTitle || n.Message != def.DefaultMessage {
		t.Errorf("title/message = %q/%q", n.Title, n.Message)
	}
	if n.Type != models.NotificationTypeCartReminder {
		t.Errorf("type = %q", n.Type)
	}
	// Email is disabled by default.
	if len(n.Channels) != 2 || n.Channels[0] != models.ChannelWebSocket || n.Channels[1] != models.ChannelPush {
		t.Errorf("channels = %v", n.Channels)
	}
	if !n.Delivered {
		t.Error("expected delivered")
	}
	if len(f.fcm.msgs) != 1 || f.fcm.msgs[0].Token != "device-token" {
		t.Errorf("fcm messages = %+v", f.fcm.msgs)
	}
	if len(f.mailer.to) != 0 {
		t.Errorf("email sent while disabled")
	}
	stored := f.store.All()
	if len(stored) != 1 || !stored[0].Delivered {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCartReminderExplicitText(t *testing.T) {
	u := customer("ada", 0)
	st := models.DefaultSettings()
	st.Notifications.EmailEnabled = true
	f := newNotifyFixture(testutil.NewSettingsWith(st), u)

	n, err := f.svc.SendCartReminder(context.Background(), models.SendNotificationRequest{
		UserID: u.ID.Hex(), Title: "  Hurry ", Message: "Only one left",
	}, Actor{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if n.Title != "Hurry" || n.Message != "Only one left" {
		t.Errorf("title/message = %q/%q", n.Title, n.Message)
	}
	// Not connected and no FCM token: only email applies.
	if len(n.Channels) != 1 || n.Channels[0] != models.ChannelEmail {
		t.Errorf("channels = %v", n.Channels)
	}
	if len(f.mailer.to) != 1 || f.mailer.to[0] != u.Email {
		t.Errorf("mail to = %v", f.mailer.to)
	}
}

func TestCartReminderRejections(t *testing.T) {
	u := customer("ada", 0)
	disabled := models.DefaultSettings()
	disabled.Notifications.CartReminderEnabled = false
	ctx := context.Background()

	f := newNotifyFixture(testutil.NewSettingsWith(disabled), u)
	_, err := f.svc.SendCartReminder(ctx, models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	wantKind(t, err, ErrConflict)

	f = newNotifyFixture(testutil.NewSettings(), u)
	_, err = f.svc.SendCartReminder(ctx, models.SendNotificationRequest{UserID: primitive.NewObjectID().Hex()}, Actor{})
	wantKind(t, err, ErrNotFound)

	_, err = f.svc.SendCartReminder(ctx, models.SendNotificationRequest{UserID: "bogus"}, Actor{})
	wantKind(t, err, ErrValidation)

	blank := models.DefaultSettings()
	blank.Notifications.DefaultTitle = ""
	f = newNotifyFixture(testutil.NewSettingsWith(blank), u)
	_, err = f.svc.SendCartReminder(ctx, models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	wantKind(t, err, ErrValidation)
}

func TestCartReminderStoreFailure(t *testing.T) {
	u := customer("ada", 0)
	f := newNotifyFixture(testutil.NewSettings(), u)
	f.store.CreateErr = errors.New("insert failed")

	_, err := f.svc.SendCartReminder(context.Background(), models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	if err == nil {
		t.Fatal("expected error")
	}
	var de *DomainError
	if errors.As(err, &de) {
		t.Fatalf("store failure surfaced as domain error %v", err)
	}
}

func TestCartReminderChannelFailureIsRecorded(t *testing.T) {
	u := customer("ada", 0)
	u.FCMToken = "device-token"
	f := newNotifyFixture(testutil.NewSettings(), u)
	f.pusher.connected[u.ID] = true
	f.fcm.err = errors.New("unregistered")

	n, err := f.svc.SendCartReminder(context.Background(), models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(n.Channels) != 1 || n.Channels[0] != models.ChannelWebSocket {
		t.Errorf("channels = %v, want websocket only", n.Channels)
	}
}

func TestCartReminderNoChannels(t *testing.T) {
	u := customer("ada", 0)
	f := newNotifyFixture(testutil.NewSettings(), u)

	n, err := f.svc.SendCartReminder(context.Background(), models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if n.Delivered || len(n.Channels) != 0 {
		t.Errorf("delivered=%v channels=%v", n.Delivered, n.Channels)
	}
}

func TestNotificationReadAndClick(t *testing.T) {
	u := customer("ada", 0)
	f := newNotifyFixture(testutil.NewSettings(), u)
	ctx := context.Background()

	n, err := f.svc.SendCartReminder(ctx, models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	_, err = f.svc.MarkRead(ctx, n.ID, primitive.NewObjectID())
	wantKind(t, err, ErrNotFound)

	clicked, err := f.svc.MarkClicked(ctx, n.ID, u.ID)
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if !clicked.IsRead || clicked.ClickedAt == nil || clicked.ReadAt == nil {
		t.Errorf("clicked = %+v", clicked)
	}
	list, err := f.svc.ListForUser(ctx, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, err %v", list, err)
	}
}

func TestCartReminderCountsQuantities(t *testing.T) {
	a := listing("valorant", 100, 5)
	b := listing("fortnite", 50, 5)
	gone := listing("deleted", 10, 1)
	u := customer("ada", 0, item(a, 2, t0), item(b, 1, t0), item(gone, 4, t0))
	f := newNotifyFixtureWith(testutil.NewSettings(), []models.Account{a, b}, u)

	n, err := f.svc.SendCartReminder(context.Background(), models.SendNotificationRequest{UserID: u.ID.Hex()}, Actor{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if n.Data["cartItemCount"] != 3 || n.Data["cartValue"] != 250.0 {
		t.Errorf("data = %+v, want cartItemCount 3 and cartValue 250", n.Data)
	}
}
