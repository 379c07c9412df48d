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

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// AdvisorStore is a file-backed advisor repository used when no MongoDB is
// configured.
type AdvisorStore struct {
	mu       sync.RWMutex
	path     string
	advisors map[string]*domain.Advisor
}

func NewAdvisorStore(dataDir string) (*AdvisorStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &AdvisorStore{
		path:     filepath.Join(dataDir, "advisors.json"),
		advisors: make(map[string]*domain.Advisor),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AdvisorStore) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read advisor store: %w", err)
	}

	var list []*domain.Advisor
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("decode advisor store: %w", err)
	}
	for _, a := range list {
		s.advisors[a.Username] = a
	}
	return nil
}

func (s *AdvisorStore) persist() error {
	list := make([]*domain.Advisor, 0, len(s.advisors))
	for _, a := range s.advisors {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode advisor store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write advisor store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace advisor store: %w", err)
	}
	return nil
}

func (s *AdvisorStore) Create(ctx context.Context, a *domain.Advisor) (*domain.Advisor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.advisors[a.Username]; exists {
		return nil, domain.ErrUserExists
	}
	c := *a
	if c.ID == "" {
		c.ID = c.Username
	}
	s.advisors[c.Username] = &c
	if err := s.persist(); err != nil {
		delete(s.advisors, c.Username)
		return nil, err
	}
	out := c
	return &out, nil
}

func (s *AdvisorStore) FindByUsername(ctx context.Context, username string) (*domain.Advisor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.advisors[username]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	c := *a
	return &c, nil
}

func (s *AdvisorStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.advisors[username]
	if !exists {
		return domain.ErrUserNotFound
	}
	prev := a.PasswordHash
	a.PasswordHash = passwordHash
	if err := s.persist(); err != nil {
		a.PasswordHash = prev
		return err
	}
	return nil
}
