package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

// Publisher receives the full active collection after every local write.
type Publisher interface {
	Publish(snapshot ports.Snapshot)
}

// BulletinStore is a file-backed bulletin repository used when no MongoDB
// is configured. The whole collection lives in one JSON file rewritten
// atomically on every mutation; snapshots are republished on each write so
// live views stay current without a change stream.
type BulletinStore struct {
	mu        sync.RWMutex
	path      string
	bulletins map[string]*domain.Bulletin
	pub       Publisher
	log       zerolog.Logger
}

func NewBulletinStore(dataDir string, pub Publisher, log zerolog.Logger) (*BulletinStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &BulletinStore{
		path:      filepath.Join(dataDir, "bulletins.json"),
		bulletins: make(map[string]*domain.Bulletin),
		pub:       pub,
		log:       log,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	s.publish()
	return s, nil
}

func (s *BulletinStore) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read bulletin store: %w", err)
	}

	var list []*domain.Bulletin
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("decode bulletin store: %w", err)
	}
	for _, b := range list {
		b.Normalize()
		s.bulletins[b.ID] = b
	}
	return nil
}

// persist rewrites the backing file via a rename so a crash mid-write
// never corrupts the store.
func (s *BulletinStore) persist() error {
	list := make([]*domain.Bulletin, 0, len(s.bulletins))
	for _, b := range s.bulletins {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bulletin store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write bulletin store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace bulletin store: %w", err)
	}
	return nil
}

func (s *BulletinStore) publish() {
	if s.pub == nil {
		return
	}
	s.pub.Publish(s.listActiveLocked())
}

func (s *BulletinStore) listActiveLocked() []*domain.Bulletin {
	out := make([]*domain.Bulletin, 0, len(s.bulletins))
	for _, b := range s.bulletins {
		if b.IsActive {
			out = append(out, cloneBulletin(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DatePosted.After(out[j].DatePosted)
	})
	return out
}

func (s *BulletinStore) Create(ctx context.Context, b *domain.Bulletin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bulletins[b.ID]; exists {
		return fmt.Errorf("bulletin %s already exists", b.ID)
	}
	s.bulletins[b.ID] = cloneBulletin(b)
	if err := s.persist(); err != nil {
		delete(s.bulletins, b.ID)
		return err
	}
	s.publish()
	return nil
}

func (s *BulletinStore) Update(ctx context.Context, b *domain.Bulletin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.bulletins[b.ID]
	if !exists {
		return domain.ErrBulletinNotFound
	}
	s.bulletins[b.ID] = cloneBulletin(b)
	if err := s.persist(); err != nil {
		s.bulletins[b.ID] = prev
		return err
	}
	s.publish()
	return nil
}

func (s *BulletinStore) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.bulletins[id]
	if !exists {
		return domain.ErrBulletinNotFound
	}
	wasActive := b.IsActive
	b.IsActive = false
	if err := s.persist(); err != nil {
		b.IsActive = wasActive
		return err
	}
	s.publish()
	return nil
}

func (s *BulletinStore) FindByID(ctx context.Context, id string) (*domain.Bulletin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.bulletins[id]
	if !exists {
		return nil, domain.ErrBulletinNotFound
	}
	return cloneBulletin(b), nil
}

func (s *BulletinStore) ListActive(ctx context.Context) ([]*domain.Bulletin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listActiveLocked(), nil
}

func cloneBulletin(b *domain.Bulletin) *domain.Bulletin {
	c := *b
	return &c
}
