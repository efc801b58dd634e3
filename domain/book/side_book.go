package book

import (
	"errors"
	"sync"
)

// ErrBookFull rejects an append once a side book reached its capacity.
// The order is never recorded in that case.
var ErrBookFull = errors.New("side book at capacity")

// SideBook holds the outstanding orders for one side of one instrument.
// It is an append-only arena with a hard capacity: orders are never
// removed, a fully consumed order simply goes inactive in place.
type SideBook struct {
	side Side

	mu     sync.RWMutex
	orders []*Order
}

func NewSideBook(side Side, capacity int) *SideBook {
	return &SideBook{
		side:   side,
		orders: make([]*Order, 0, capacity),
	}
}

func (sb *SideBook) Append(o *Order) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if len(sb.orders) == cap(sb.orders) {
		return ErrBookFull
	}
	sb.orders = append(sb.orders, o)
	return nil
}

// Best returns the active order with the best price for this side:
// highest price for buys, lowest for sells. Price ties go to the lowest
// order id (earliest submitted). Returns nil when no active order rests
// in the book.
func (sb *SideBook) Best() *Order {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var best *Order
	for _, o := range sb.orders {
		if !o.Active() {
			continue
		}
		if best == nil || sb.better(o, best) {
			best = o
		}
	}
	return best
}

func (sb *SideBook) better(a, b *Order) bool {
	if a.Price == b.Price {
		return a.ID < b.ID
	}
	if sb.side == Buy {
		return a.Price > b.Price
	}
	return a.Price < b.Price
}

// Len counts resting orders, active or not.
func (sb *SideBook) Len() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return len(sb.orders)
}
