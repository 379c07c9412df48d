package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

// capturePublisher records every published snapshot.
type capturePublisher struct {
	snapshots []ports.Snapshot
}

func (p *capturePublisher) Publish(s ports.Snapshot) {
	p.snapshots = append(p.snapshots, s)
}

func (p *capturePublisher) last(t *testing.T) ports.Snapshot {
	t.Helper()
	if len(p.snapshots) == 0 {
		t.Fatalf("nothing published")
	}
	return p.snapshots[len(p.snapshots)-1]
}

func testBulletin(id string, posted time.Time) *domain.Bulletin {
	return &domain.Bulletin{
		ID:          id,
		Title:       "Posting " + id,
		Category:    domain.CategoryJob,
		AdvisorName: "Jorge",
		PostedBy:    "jorge",
		DatePosted:  posted,
		IsActive:    true,
	}
}

func TestBulletinStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBulletinStore(dir, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	b := testBulletin("blt-1", time.Now())
	if err := store.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A fresh store over the same directory must see the record.
	reopened, err := NewBulletinStore(dir, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	got, err := reopened.FindByID(ctx, "blt-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "Posting blt-1" || !got.IsActive {
		t.Fatalf("round-tripped bulletin: %+v", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "bulletins.json.tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind")
	}
}

func TestBulletinStore_CreateRejectsDuplicateID(t *testing.T) {
	store, err := NewBulletinStore(t.TempDir(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	b := testBulletin("blt-1", time.Now())
	if err := store.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, b); err == nil {
		t.Fatalf("duplicate create should fail")
	}
}

func TestBulletinStore_SoftDelete(t *testing.T) {
	store, err := NewBulletinStore(t.TempDir(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, testBulletin("blt-1", time.Now())); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.SoftDelete(ctx, "blt-1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// The record survives lookups but leaves the active listing.
	got, err := store.FindByID(ctx, "blt-1")
	if err != nil {
		t.Fatalf("find after delete: %v", err)
	}
	if got.IsActive {
		t.Fatalf("record should be inactive")
	}
	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("inactive bulletin listed: %+v", active)
	}

	if err := store.SoftDelete(ctx, "ghost"); !errors.Is(err, domain.ErrBulletinNotFound) {
		t.Fatalf("expected ErrBulletinNotFound, got %v", err)
	}
}

func TestBulletinStore_ListActiveNewestFirst(t *testing.T) {
	store, err := NewBulletinStore(t.TempDir(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"blt-old", "blt-mid", "blt-new"} {
		if err := store.Create(ctx, testBulletin(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 3 || active[0].ID != "blt-new" || active[2].ID != "blt-old" {
		t.Fatalf("unexpected order: %v", []string{active[0].ID, active[1].ID, active[2].ID})
	}
}

func TestBulletinStore_PublishesOnEveryMutation(t *testing.T) {
	pub := &capturePublisher{}
	store, err := NewBulletinStore(t.TempDir(), pub, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	// Startup publishes the (empty) initial snapshot.
	if len(pub.snapshots) != 1 || len(pub.last(t)) != 0 {
		t.Fatalf("expected one empty startup snapshot, got %d", len(pub.snapshots))
	}

	b := testBulletin("blt-1", time.Now())
	if err := store.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := pub.last(t); len(got) != 1 || got[0].ID != "blt-1" {
		t.Fatalf("create snapshot: %+v", got)
	}

	b.Title = "Edited"
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := pub.last(t); got[0].Title != "Edited" {
		t.Fatalf("update snapshot: %+v", got[0])
	}

	if err := store.SoftDelete(ctx, "blt-1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if got := pub.last(t); len(got) != 0 {
		t.Fatalf("delete snapshot should be empty, got %+v", got)
	}
}

func TestBulletinStore_NormalizesLegacyRecordsOnLoad(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"blt-old","title":"Know Your Rights","category":"immigration",` +
		`"advisor_name":"Carmen","posted_by":"carmen","is_active":true,"event_link":"example.org/info"}]`
	if err := os.WriteFile(filepath.Join(dir, "bulletins.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store, err := NewBulletinStore(dir, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	got, err := store.FindByID(context.Background(), "blt-old")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Category != domain.CategoryResource {
		t.Fatalf("retired category not folded, got %q", got.Category)
	}
	if got.EventLink != "https://example.org/info" {
		t.Fatalf("link scheme not ensured, got %q", got.EventLink)
	}
}

func TestBulletinStore_ClonesOnReturn(t *testing.T) {
	store, err := NewBulletinStore(t.TempDir(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, testBulletin("blt-1", time.Now())); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.FindByID(ctx, "blt-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got.Title = "mutated by caller"

	again, err := store.FindByID(ctx, "blt-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if again.Title != "Posting blt-1" {
		t.Fatalf("caller mutation leaked into the store: %q", again.Title)
	}
}
