package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/HSouheill/storefront_backend/models"
)

type DashboardService struct {
	accounts AccountStore
	users    UserStore
	orders   OrderStore
	tickets  TicketStore
}

func NewDashboardService(accounts AccountStore, users UserStore, orders OrderStore, tickets TicketStore) *DashboardService {
	return &DashboardService{accounts: accounts, users: users, orders: orders, tickets: tickets}
}

// Stats runs the dashboard counters concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.AccountsByStatus, err = s.accounts.CountByStatus(gctx)
		return storeErr(err, "accounts")
	})
	g.Go(func() (err error) {
		out.OrdersByStatus, err = s.orders.CountByStatus(gctx)
		return storeErr(err, "orders")
	})
	g.Go(func() (err error) {
		out.TotalUsers, err = s.users.Count(gctx)
		return storeErr(err, "users")
	})
	g.Go(func() (err error) {
		out.Revenue, err = s.orders.Revenue(gctx)
		return storeErr(err, "orders")
	})
	g.Go(func() (err error) {
		out.OpenTickets, err = s.tickets.CountOpen(gctx)
		return storeErr(err, "tickets")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
