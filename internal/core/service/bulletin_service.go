package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/filter"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

type BulletinService struct {
	repo      ports.BulletinRepository
	moderator *Moderator
	logger    zerolog.Logger
}

func NewBulletinService(repo ports.BulletinRepository, moderator *Moderator, logger zerolog.Logger) *BulletinService {
	if moderator == nil {
		moderator = NewModerator(DefaultRules()...)
	}
	return &BulletinService{repo: repo, moderator: moderator, logger: logger}
}

// Create persists a new bulletin for the session advisor. The posting
// timestamp is assigned here, never taken from the client, and the legacy
// deadline mirror is derived from the submitted date fields. Moderation
// warnings are advisory and never block the write.
func (s *BulletinService) Create(ctx context.Context, input ports.BulletinInput, sess ports.Session) (*domain.Bulletin, []string, error) {
	if sess.Username == "" {
		return nil, nil, domain.ErrUnauthenticated
	}

	b := fromInput(input)
	b.ID = generateBulletinID()
	b.PostedBy = sess.Username
	b.DatePosted = time.Now().UTC()
	b.IsActive = true
	if strings.TrimSpace(b.AdvisorName) == "" {
		b.AdvisorName = sess.DisplayName
	}
	b.Normalize()

	if err := b.Validate(); err != nil {
		return nil, nil, err
	}

	warnings := s.moderator.Review(b.Title + "\n" + b.Description + "\n" + b.Company)

	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error().Err(err).Str("posted_by", sess.Username).Msg("failed to create bulletin")
		return nil, nil, err
	}

	s.logger.Info().
		Str("bulletin_id", b.ID).
		Str("category", string(b.Category)).
		Str("posted_by", b.PostedBy).
		Msg("bulletin created")

	return b, warnings, nil
}

// Update applies a partial patch to an existing bulletin. Only the original
// poster or an admin may update; date_posted is immutable.
func (s *BulletinService) Update(ctx context.Context, id string, patch ports.BulletinPatch, sess ports.Session) (*domain.Bulletin, []string, error) {
	if sess.Username == "" {
		return nil, nil, domain.ErrUnauthenticated
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanManage(sess.Username, sess.Role, b) {
		return nil, nil, domain.ErrForbidden
	}

	applyPatch(b, patch)
	b.Normalize()

	if err := b.Validate(); err != nil {
		return nil, nil, err
	}

	warnings := s.moderator.Review(b.Title + "\n" + b.Description + "\n" + b.Company)

	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.Error().Err(err).Str("bulletin_id", id).Msg("failed to update bulletin")
		return nil, nil, err
	}

	s.logger.Info().Str("bulletin_id", id).Str("updated_by", sess.Username).Msg("bulletin updated")
	return b, warnings, nil
}

// SoftDelete marks a bulletin inactive. The record is never removed.
func (s *BulletinService) SoftDelete(ctx context.Context, id string, sess ports.Session) error {
	if sess.Username == "" {
		return domain.ErrUnauthenticated
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanManage(sess.Username, sess.Role, b) {
		return domain.ErrForbidden
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("bulletin_id", id).Msg("failed to soft-delete bulletin")
		return err
	}

	s.logger.Info().Str("bulletin_id", id).Str("deleted_by", sess.Username).Msg("bulletin soft-deleted")
	return nil
}

// Get retrieves a single bulletin. Soft-deleted bulletins surface as not
// found so dead deep links render the "no longer available" placeholder.
func (s *BulletinService) Get(ctx context.Context, id string) (*domain.Bulletin, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, domain.ErrBulletinNotFound
	}
	return b, nil
}

// ListVisible loads the active collection and runs the filter engine.
func (s *BulletinService) ListVisible(ctx context.Context, sel filter.Selection, now time.Time) (filter.Result, error) {
	bulletins, err := s.repo.ListActive(ctx)
	if err != nil {
		return filter.Result{}, err
	}
	return filter.Apply(bulletins, sel, now), nil
}

// generateBulletinID returns a unique bulletin id in the format blt-XXXXXXXXXXXX.
func generateBulletinID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("blt-%012X", time.Now().UnixNano())
	}
	return fmt.Sprintf("blt-%012X", b)
}

func fromInput(in ports.BulletinInput) *domain.Bulletin {
	return &domain.Bulletin{
		Title:         strings.TrimSpace(in.Title),
		Category:      domain.Category(in.Category),
		Description:   in.Description,
		Company:       in.Company,
		Contact:       in.Contact,
		AdvisorName:   strings.TrimSpace(in.AdvisorName),
		ClassType:     domain.ClassType(in.ClassType),
		EventLink:     in.EventLink,
		Image:         in.Image,
		PDFURL:        in.PDFURL,
		DateType:      in.DateType,
		EventDate:     in.EventDate,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		EventLocation: domain.EventLocation(in.EventLocation),
	}
}

func applyPatch(b *domain.Bulletin, p ports.BulletinPatch) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		b.Category = domain.Category(*p.Category)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Company != nil {
		b.Company = *p.Company
	}
	if p.Contact != nil {
		b.Contact = *p.Contact
	}
	if p.AdvisorName != nil {
		b.AdvisorName = strings.TrimSpace(*p.AdvisorName)
	}
	if p.ClassType != nil {
		b.ClassType = domain.ClassType(*p.ClassType)
	}
	if p.EventLink != nil {
		b.EventLink = *p.EventLink
	}
	if p.Image != nil {
		b.Image = *p.Image
	}
	if p.PDFURL != nil {
		b.PDFURL = *p.PDFURL
	}
	if p.DateType != nil {
		b.DateType = *p.DateType
		// Switching generations clears the stale counterpart fields; the
		// mirror is re-derived by Normalize.
		switch *p.DateType {
		case domain.DateTypeRange:
			b.EventDate = ""
		case domain.DateTypeDeadline, domain.DateTypeEvent:
			b.StartDate = ""
			b.EndDate = ""
		}
	}
	if p.EventDate != nil {
		b.EventDate = *p.EventDate
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.StartTime != nil {
		b.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		b.EndTime = *p.EndTime
	}
	if p.EventLocation != nil {
		b.EventLocation = domain.EventLocation(*p.EventLocation)
	}
}
