package cart

import (
	"context"
	"fmt"
	"time"
)

// Store binds a cart to its session and persists every mutation.
type Store struct {
	repo Repository
	cart *Cart
}

// Open loads the session's cart, starting an empty one on first use.
func Open(ctx context.Context, repo Repository, sessionID string) (*Store, error) {
	c, err := repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c == nil {
		c = New(sessionID)
	}
	return &Store{repo: repo, cart: c}, nil
}

func (s *Store) Cart() *Cart {
	return s.cart
}

func (s *Store) Add(ctx context.Context, item Item) error {
	if err := s.cart.Add(item); err != nil {
		return err
	}
	return s.save(ctx)
}

func (s *Store) Remove(ctx context.Context, itemID string) error {
	s.cart.Remove(itemID)
	return s.save(ctx)
}

func (s *Store) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	s.cart.SetQuantity(itemID, quantity)
	return s.save(ctx)
}

// Clear empties the cart and drops its persisted copy.
func (s *Store) Clear(ctx context.Context) error {
	s.cart.Clear()
	if err := s.repo.Delete(ctx, s.cart.SessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (s *Store) save(ctx context.Context) error {
	s.cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
