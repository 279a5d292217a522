//go:build integration

package repositories

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/storefront_backend/config"
	"github.com/HSouheill/storefront_backend/models"
)

func dockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// startMongo runs a throwaway MongoDB and returns a database with indexes applied.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if !dockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("27017/tcp"),
				wait.ForLog("Waiting for connections"),
			).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	cfg := config.MongoConfig{
		URI:      fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database: "storefront_it",
	}
	client, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(cfg.Database)
	config.EnsureIndexes(ctx, db)
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	accounts := NewAccountRepository(db)

	u := &models.User{Email: "buyer@example.com", Name: "Buyer", Role: models.RoleUser, Balance: 50}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID.IsZero() {
		t.Fatal("expected an inserted id")
	}

	t.Run("unique email", func(t *testing.T) {
		err := users.Create(ctx, &models.User{Email: "buyer@example.com", Name: "Dup"})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("conditional debit", func(t *testing.T) {
		if _, err := users.DebitBalance(ctx, u.ID, 80); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected short balance to fail, got %v", err)
		}
		got, err := users.DebitBalance(ctx, u.ID, 30)
		if err != nil {
			t.Fatalf("debit: %v", err)
		}
		if got.Balance != 20 {
			t.Errorf("balance = %v, want 20", got.Balance)
		}
		if err := users.CreditBalance(ctx, u.ID, 30); err != nil {
			t.Fatalf("credit: %v", err)
		}
	})

	t.Run("stock reservation flips to sold", func(t *testing.T) {
		acc := &models.Account{Title: "Listing", Price: 10, Status: models.AccountAvailable, Stock: 2, Images: []string{}}
		if err := accounts.Create(ctx, acc); err != nil {
			t.Fatalf("create account: %v", err)
		}
		if _, err := accounts.ReserveStock(ctx, acc.ID, 3); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected over-reservation to fail, got %v", err)
		}
		got, err := accounts.ReserveStock(ctx, acc.ID, 2)
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if got.Stock != 0 || got.Status != models.AccountSold {
			t.Errorf("got stock=%d status=%s, want 0 sold", got.Stock, got.Status)
		}
		if err := accounts.ReleaseStock(ctx, acc.ID, 2); err != nil {
			t.Fatalf("release: %v", err)
		}
		back, err := accounts.Get(ctx, acc.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if back.Stock != 2 || back.Status != models.AccountAvailable {
			t.Errorf("after release stock=%d status=%s", back.Stock, back.Status)
		}
	})

	t.Run("release keeps an admin status", func(t *testing.T) {
		acc := &models.Account{Title: "Suspended mid-checkout", Price: 10, Status: models.AccountAvailable, Stock: 1, Images: []string{}}
		if err := accounts.Create(ctx, acc); err != nil {
			t.Fatalf("create account: %v", err)
		}
		if _, err := accounts.ReserveStock(ctx, acc.ID, 1); err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if _, err := accounts.Update(ctx, acc.ID, bson.M{"status": models.AccountSuspended}); err != nil {
			t.Fatalf("suspend: %v", err)
		}
		if err := accounts.ReleaseStock(ctx, acc.ID, 1); err != nil {
			t.Fatalf("release: %v", err)
		}
		back, err := accounts.Get(ctx, acc.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if back.Stock != 1 || back.SalesCount != 0 || back.Status != models.AccountSuspended {
			t.Errorf("after release stock=%d sales=%d status=%s, want 1 0 suspended", back.Stock, back.SalesCount, back.Status)
		}
		if err := accounts.ReleaseStock(ctx, primitive.NewObjectID(), 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("release of unknown listing: %v", err)
		}
	})

	t.Run("cart replace and pull", func(t *testing.T) {
		acc := &models.Account{Title: "Cart item", Price: 5, Status: models.AccountAvailable, Stock: 9, Images: []string{}}
		if err := accounts.Create(ctx, acc); err != nil {
			t.Fatalf("create account: %v", err)
		}
		cart := []models.CartItem{{ProductID: acc.ID, Quantity: 3, AddedAt: time.Now().UTC()}}
		got, err := users.SetCart(ctx, u.ID, cart)
		if err != nil {
			t.Fatalf("set cart: %v", err)
		}
		if len(got.Cart) != 1 {
			t.Fatalf("cart len = %d, want 1", len(got.Cart))
		}
		got, err = users.PullCartItems(ctx, u.ID, []primitive.ObjectID{acc.ID})
		if err != nil {
			t.Fatalf("pull: %v", err)
		}
		if len(got.Cart) != 0 {
			t.Errorf("cart len = %d after pull", len(got.Cart))
		}
	})

	t.Run("presence sweep", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		if err := users.TouchActivity(ctx, u.ID, past); err != nil {
			t.Fatalf("touch: %v", err)
		}
		n, err := users.MarkOffline(ctx, time.Now().UTC().Add(-30*time.Minute))
		if err != nil {
			t.Fatalf("mark offline: %v", err)
		}
		if n != 1 {
			t.Errorf("marked %d users offline, want 1", n)
		}
	})

	t.Run("settings singleton", func(t *testing.T) {
		settings := NewSettingsRepository(db)
		s, err := settings.Get(ctx)
		if err != nil {
			t.Fatalf("get settings: %v", err)
		}
		s.SiteName = "Integration"
		if _, err := settings.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
		n, err := db.Collection("settings").CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Errorf("settings documents = %d, want 1", n)
		}
	})
}
