package services_test

// End-to-end service tests against a real database. Set TEST_DATABASE_URL
// (e.g. postgres://postgres@localhost:5432/hotel_test) to run them; without
// it they skip.

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hotel-backend/internal/models"
	"hotel-backend/internal/repositories"
	"hotel-backend/internal/services"
	"hotel-backend/internal/timeutil"
)

type testEnv struct {
	pool      *pgxpool.Pool
	tableRepo *repositories.RestaurantTableRepository
	tables    *services.TableOrderService
	revenue   *services.RevenueService
	dayClose  *services.DayCloseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE restaurant_tables, daily_revenue, room_accounts`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	tableRepo := repositories.NewRestaurantTableRepository(pool)
	revenueRepo := repositories.NewDailyRevenueRepository(pool)
	if err := tableRepo.EnsureTables(ctx, 6); err != nil {
		t.Fatalf("seed tables: %v", err)
	}

	revenue := services.NewRevenueService(pool, revenueRepo)
	tables := services.NewTableOrderService(pool, tableRepo, revenue, nil)
	dayClose := services.NewDayCloseService(tables, revenue, nil)

	return &testEnv{
		pool:      pool,
		tableRepo: tableRepo,
		tables:    tables,
		revenue:   revenue,
		dayClose:  dayClose,
	}
}

func TestCloseDaySweepsEveryTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Table 2 has an order; table 4 only carries a room assignment and
	// stays available, so the per-table close loop never visits it.
	if _, err := env.tables.AddItem(ctx, 2, models.OrderLine{
		ProductID:   "caffe",
		ProductName: "Caffe",
		Quantity:    2,
		UnitPrice:   decimal.RequireFromString("1.50"),
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.tables.AssignRoom(ctx, 4, 12); err != nil {
		t.Fatalf("AssignRoom: %v", err)
	}

	summary, err := env.dayClose.CloseDay(ctx)
	if err != nil {
		t.Fatalf("CloseDay: %v", err)
	}
	if summary.TablesFreed != 1 {
		t.Errorf("TablesFreed = %d, want 1", summary.TablesFreed)
	}
	if summary.TablesReset < 1 {
		t.Errorf("TablesReset = %d, want >= 1 (table 4 must be swept)", summary.TablesReset)
	}

	// The sweep must wipe the assignment even though table 4 had no order.
	t4, err := env.tableRepo.Get(ctx, env.pool, 4)
	if err != nil {
		t.Fatalf("Get table 4: %v", err)
	}
	if t4.AssignedRoom != 0 {
		t.Errorf("table 4 assignedRoom = %d after close, want 0", t4.AssignedRoom)
	}

	t2, err := env.tableRepo.Get(ctx, env.pool, 2)
	if err != nil {
		t.Fatalf("Get table 2: %v", err)
	}
	if t2.Status != models.TableStatusAvailable || len(t2.OrderItems) != 0 {
		t.Errorf("table 2 not reset: status %q, %d items", t2.Status, len(t2.OrderItems))
	}

	rec, err := env.revenue.Get(ctx, timeutil.TodayKey())
	if err != nil {
		t.Fatalf("Get revenue: %v", err)
	}
	if !rec.Closed {
		t.Error("revenue record not marked closed")
	}
	if want := decimal.RequireFromString("3.00"); !rec.TotalRevenue.Equal(want) {
		t.Errorf("TotalRevenue = %s, want %s", rec.TotalRevenue, want)
	}
}

func TestMarkClosedKeepsArchivedItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dateKey := timeutil.TodayKey()
	if _, err := env.revenue.Archive(ctx, dateKey, 3, []models.OrderLine{{
		ProductID:   "spritz",
		ProductName: "Spritz",
		Quantity:    2,
		UnitPrice:   decimal.RequireFromString("5.00"),
		TotalPrice:  decimal.RequireFromString("10.00"),
	}}); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	rec, err := env.revenue.MarkClosed(ctx, dateKey, timeutil.Now())
	if err != nil {
		t.Fatalf("MarkClosed: %v", err)
	}
	if !rec.Closed || rec.ClosedAt == nil {
		t.Error("record not closed")
	}
	// The close must write through the locked row, never a stale copy.
	if len(rec.SoldItems) != 1 || rec.SoldItems[0].Quantity != 2 {
		t.Errorf("sold items lost on close: %+v", rec.SoldItems)
	}
	if want := decimal.RequireFromString("10.00"); !rec.TotalRevenue.Equal(want) {
		t.Errorf("TotalRevenue = %s, want %s", rec.TotalRevenue, want)
	}
}

func TestListTablesServesSeededSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tables, err := env.tables.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tables) != 6 {
		t.Errorf("List returned %d tables, want 6", len(tables))
	}
}
