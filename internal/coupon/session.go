package coupon

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Session holds at most one applied coupon for a cart session and persists
// every change.
type Session struct {
	repo      Repository
	sessionID string
	applied   *Applied
}

func OpenSession(ctx context.Context, repo Repository, sessionID string) (*Session, error) {
	a, err := repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load coupon: %w", err)
	}
	return &Session{repo: repo, sessionID: sessionID, applied: a}, nil
}

// Applied returns the current coupon, or nil.
func (s *Session) Applied() *Applied {
	return s.applied
}

// Apply resolves code and replaces the current coupon on success. An unknown
// code clears the current coupon; an unmet minimum leaves it in place.
func (s *Session) Apply(ctx context.Context, code string, promotions []Promotion, subtotal decimal.Decimal) (*Applied, error) {
	a, err := Apply(code, promotions, subtotal)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) && s.applied != nil {
			if rmErr := s.Remove(ctx); rmErr != nil {
				return nil, rmErr
			}
		}
		return nil, err
	}

	if err := s.repo.Save(ctx, s.sessionID, a); err != nil {
		return nil, fmt.Errorf("save coupon: %w", err)
	}
	s.applied = a
	return a, nil
}

// Remove clears the coupon. Removing when nothing is applied is not an error.
func (s *Session) Remove(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.sessionID); err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	s.applied = nil
	return nil
}
