package usage

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:usage_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.UsageCounter{}); err != nil {
		t.Fatalf("migrate usage counters: %v", err)
	}
	return db
}

func TestUpsertCreatesThenIncrements(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	garageID := uuid.New()
	now := time.Now().UTC()

	for i := 0; i < 7; i++ {
		if err := repo.Upsert(ctx, garageID, "category", "Engine", now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	var counters []models.UsageCounter
	if err := repo.db.Find(&counters, "garage_id = ?", garageID).Error; err != nil {
		t.Fatalf("load counters: %v", err)
	}
	if len(counters) != 1 {
		t.Fatalf("rows = %d, want exactly one per key", len(counters))
	}
	if counters[0].Count != 7 {
		t.Errorf("count = %d, want 7", counters[0].Count)
	}
}

func TestUpsertKeysAreIndependent(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	garageA := uuid.New()
	garageB := uuid.New()
	now := time.Now().UTC()

	steps := []struct {
		garage uuid.UUID
		field  string
		value  string
	}{
		{garageA, "category", "Engine"},
		{garageA, "category", "Brakes"},
		{garageA, "manufacturer", "Engine"},
		{garageB, "category", "Engine"},
	}
	for _, s := range steps {
		if err := repo.Upsert(ctx, s.garage, s.field, s.value, now); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	var total int64
	if err := repo.db.Model(&models.UsageCounter{}).Count(&total).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 4 {
		t.Errorf("rows = %d, want 4 distinct keys", total)
	}
}

func TestTopValuesRanksByCount(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	tracker := NewTracker(repo)
	ctx := context.Background()
	garageID := uuid.New()

	for value, hits := range map[string]int{"Engine": 3, "Brakes": 5, "Suspension": 1} {
		for i := 0; i < hits; i++ {
			if err := tracker.Record(ctx, garageID, "category", value); err != nil {
				t.Fatalf("record %s: %v", value, err)
			}
		}
	}

	top, err := tracker.Top(ctx, garageID, "category", 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("top = %d entries, want 2", len(top))
	}
	if top[0].Value != "Brakes" || top[0].Count != 5 {
		t.Errorf("top[0] = %s/%d, want Brakes/5", top[0].Value, top[0].Count)
	}
	if top[1].Value != "Engine" || top[1].Count != 3 {
		t.Errorf("top[1] = %s/%d, want Engine/3", top[1].Value, top[1].Count)
	}
}

func TestRecordValidatesKey(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(NewRepository(newTestDB(t)))
	ctx := context.Background()

	cases := []struct {
		name   string
		garage uuid.UUID
		field  string
		value  string
	}{
		{"nil garage", uuid.Nil, "category", "Engine"},
		{"blank field", uuid.New(), "  ", "Engine"},
		{"blank value", uuid.New(), "category", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tracker.Record(ctx, tc.garage, tc.field, tc.value)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("code = %v, want %s", err, pkgerrors.CodeValidation)
			}
		})
	}
}

// Concurrent increments need a real Postgres behind them; SQLite serializes
// writers and would not exercise the race.
func TestUpsertConcurrentPostgres(t *testing.T) {
	dsn := os.Getenv("GARAGEHUB_DB_DSN")
	if dsn == "" {
		t.Skip("GARAGEHUB_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.UsageCounter{}); err != nil {
		t.Fatalf("migrate usage counters: %v", err)
	}

	repo := NewRepository(conn)
	tracker := NewTracker(repo)
	ctx := context.Background()
	garageID := uuid.New()

	const workers = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tracker.Record(ctx, garageID, "category", "Engine")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	var counter models.UsageCounter
	if err := conn.First(&counter, "garage_id = ?", garageID).Error; err != nil {
		t.Fatalf("load counter: %v", err)
	}
	if counter.Count != workers {
		t.Errorf("count = %d, want %d (no lost updates)", counter.Count, workers)
	}
}
