package models

// Item represents a purchasable unit stored in the items table.
// It carries a free-form category, a base value and a rating.
type Item struct {
	ID       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"index;not null"`
	Category string  `gorm:"index;not null"`
	Value    float64 `gorm:"not null"`
	Rating   int     `gorm:"not null"`
}

func (i *Item) TableName() string {
	return "items"
}

// ItemFields holds the mutable columns of an Item. Update replaces all of them.
type ItemFields struct {
	Name     string
	Category string
	Value    float64
	Rating   int
}

// CategoryCount is the number of stored items in a category.
type CategoryCount struct {
	Category string
	Count    int64
}
