package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quillsign/quillsign/internal/domain/repositories"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var (
	ErrReasonExists    = errors.New("reason already exists")
	ErrEmptyReasonText = errors.New("reason text must not be empty")
	ErrReasonNotFound  = errors.New("reason not found")
)

// ReasonList is the reason picker's payload: the curated primary list plus
// the user-added "other" entries.
type ReasonList struct {
	Primary []string `json:"primary"`
	Other   []string `json:"other"`
}

// ReasonService manages the configurable reasons-to-sign list.
type ReasonService struct {
	reasonRepo repositories.ReasonRepository
}

func NewReasonService(reasonRepo repositories.ReasonRepository) *ReasonService {
	return &ReasonService{reasonRepo: reasonRepo}
}

// List returns both sub-lists in insertion order.
func (s *ReasonService) List(ctx context.Context) (*ReasonList, error) {
	primary, err := s.reasonRepo.ListByKind(ctx, models.ReasonPrimary)
	if err != nil {
		return nil, err
	}
	other, err := s.reasonRepo.ListByKind(ctx, models.ReasonOther)
	if err != nil {
		return nil, err
	}
	return &ReasonList{
		Primary: reasonTexts(primary),
		Other:   reasonTexts(other),
	}, nil
}

// Add stores a custom reason in the "other" sub-list. Duplicates across
// both sub-lists are rejected.
func (s *ReasonService) Add(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyReasonText
	}
	if utf8.RuneCountInString(text) > maxReasonLength {
		return ErrReasonTooLong
	}

	if _, err := s.reasonRepo.GetByText(ctx, text); err == nil {
		return fmt.Errorf("%w: %q", ErrReasonExists, text)
	}

	return s.reasonRepo.Create(ctx, &models.SignatureReason{
		Text: text,
		Kind: models.ReasonOther,
	})
}

// Delete removes a custom reason. Primary reasons cannot be deleted.
func (s *ReasonService) Delete(ctx context.Context, text string) error {
	removed, err := s.reasonRepo.DeleteByText(ctx, text, models.ReasonOther)
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("%w: %q", ErrReasonNotFound, text)
	}
	return nil
}

func reasonTexts(reasons []models.SignatureReason) []string {
	texts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		texts = append(texts, r.Text)
	}
	return texts
}
