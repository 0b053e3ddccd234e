// Package cache keeps hot catalog lookups in process memory.
package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
)

// MenuItems wraps a menu item repository with an LRU over GetMenuItem.
// Writes through the wrapper evict the affected entry.
type MenuItems struct {
	port.MenuItemRepository

	items *lru.Cache[uuid.UUID, domain.MenuItem]
}

func NewMenuItems(repo port.MenuItemRepository, size int) (*MenuItems, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}

	items, err := lru.New[uuid.UUID, domain.MenuItem](size)
	if err != nil {
		return nil, fmt.Errorf("lru.New: %w", err)
	}

	return &MenuItems{MenuItemRepository: repo, items: items}, nil
}

func (c *MenuItems) GetMenuItem(ctx context.Context, id uuid.UUID) (domain.MenuItem, error) {
	if item, ok := c.items.Get(id); ok {
		return item, nil
	}

	item, err := c.MenuItemRepository.GetMenuItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}

	c.items.Add(id, item)
	return item, nil
}

func (c *MenuItems) UpdateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	c.items.Remove(item.ID)

	updated, err := c.MenuItemRepository.UpdateMenuItem(ctx, item)
	if err != nil {
		return domain.MenuItem{}, err
	}

	c.items.Add(updated.ID, updated)
	return updated, nil
}

func (c *MenuItems) DeleteMenuItem(ctx context.Context, id uuid.UUID) (bool, error) {
	c.items.Remove(id)
	return c.MenuItemRepository.DeleteMenuItem(ctx, id)
}

// Len is the number of cached entries.
func (c *MenuItems) Len() int {
	return c.items.Len()
}
