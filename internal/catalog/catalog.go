// Package catalog предоставляет доступ на чтение к меню кафетерия.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/mmeshcher/readytoeat/internal/model"
)

// Accessor описывает поиск позиции меню по идентификатору.
type Accessor interface {
	Lookup(itemID int64) (model.CatalogItem, bool)
}

// Catalog хранит неизменяемый снимок меню.
type Catalog struct {
	items map[int64]model.CatalogItem
}

// New строит снимок меню из списка позиций. При повторе идентификатора
// побеждает последняя запись.
func New(items []model.CatalogItem) *Catalog {
	c := &Catalog{items: make(map[int64]model.CatalogItem, len(items))}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

// Lookup возвращает позицию меню. Для nil-снимка всегда возвращает false.
func (c *Catalog) Lookup(itemID int64) (model.CatalogItem, bool) {
	if c == nil {
		return model.CatalogItem{}, false
	}
	it, ok := c.items[itemID]
	return it, ok
}

// Items возвращает позиции меню, отсортированные по идентификатору.
func (c *Catalog) Items() []model.CatalogItem {
	if c == nil {
		return nil
	}
	res := make([]model.CatalogItem, 0, len(c.items))
	for _, it := range c.items {
		res = append(res, it)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Fetcher загружает меню из удалённого источника.
type Fetcher interface {
	GetFoodItems(ctx context.Context) ([]model.CatalogItem, error)
}

// Source хранит последний успешно загруженный снимок меню.
// До первой загрузки любой поиск возвращает false.
type Source struct {
	fetcher   Fetcher
	current   atomic.Pointer[Catalog]
	updatedAt atomic.Int64
}

// NewSource создаёт источник меню поверх указанного загрузчика.
func NewSource(f Fetcher) *Source {
	return &Source{fetcher: f}
}

// Refresh загружает меню и заменяет снимок. При ошибке остаётся прежний снимок.
func (s *Source) Refresh(ctx context.Context) error {
	items, err := s.fetcher.GetFoodItems(ctx)
	if err != nil {
		return fmt.Errorf("fetch food items: %w", err)
	}
	s.current.Store(New(items))
	s.updatedAt.Store(time.Now().UnixNano())
	return nil
}

// Snapshot возвращает текущий снимок меню (может быть nil).
func (s *Source) Snapshot() *Catalog {
	return s.current.Load()
}

// Lookup ищет позицию в текущем снимке.
func (s *Source) Lookup(itemID int64) (model.CatalogItem, bool) {
	return s.current.Load().Lookup(itemID)
}

// Loaded сообщает, был ли загружен хотя бы один снимок.
func (s *Source) Loaded() bool {
	return s.current.Load() != nil
}

// UpdatedAt возвращает время последней успешной загрузки.
func (s *Source) UpdatedAt() time.Time {
	ns := s.updatedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
