package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ItemsRepository struct {
	db *gorm.DB
}

// ErrItemNotFound is returned when no item exists for the requested id.
var ErrItemNotFound = errors.New("item not found")

// ItemFilters narrows item scans. Category is an equality filter; empty means no filter.
type ItemFilters struct {
	Category string
}

func NewItemsRepository(db *gorm.DB) *ItemsRepository {
	return &ItemsRepository{
		db: db,
	}
}

func (r *ItemsRepository) scoped(ctx context.Context, filters ItemFilters) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&Item{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	return query
}

// CreateItem inserts item and fills in its store-assigned ID.
func (r *ItemsRepository) CreateItem(ctx context.Context, item *Item) error {
	item.ID = 0
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *ItemsRepository) GetByID(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

// GetFilteredItems returns one page of items ordered by id.
func (r *ItemsRepository) GetFilteredItems(ctx context.Context, offset, limit int, filters ItemFilters) ([]Item, error) {
	var items []Item
	if err := r.scoped(ctx, filters).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// GetAllItems scans every item matching filters, ordered by id.
func (r *ItemsRepository) GetAllItems(ctx context.Context, filters ItemFilters) ([]Item, error) {
	var items []Item
	if err := r.scoped(ctx, filters).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return items, nil
}

// UpdateItem replaces every mutable field of the item with the given id.
func (r *ItemsRepository) UpdateItem(ctx context.Context, id uint, fields ItemFields) (*Item, error) {
	var item Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		item.Name = fields.Name
		item.Category = fields.Category
		item.Value = fields.Value
		item.Rating = fields.Rating
		return tx.Save(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	return &item, nil
}

func (r *ItemsRepository) DeleteItem(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Item{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// CountByCategory groups stored items by category, ordered by category name.
func (r *ItemsRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	if err := r.db.WithContext(ctx).
		Model(&Item{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count items by category: %w", err)
	}
	return counts, nil
}
