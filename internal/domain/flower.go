package domain

import "time"

// Flower is one row of the language-of-flowers catalog.
// NameKey is the normalized display name (lowercased, trimmed) and is unique;
// Position preserves the CSV row order so last-write-wins survives a round trip.
type Flower struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	NameKey   string    `gorm:"type:text;not null;uniqueIndex:idx_flowers_name_key" json:"name_key"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Color     string    `gorm:"type:text" json:"color,omitempty"`
	Meaning   string    `gorm:"type:text;not null" json:"meaning"`
	Position  int       `gorm:"index:idx_flowers_position" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Flower.
func (Flower) TableName() string {
	return "flowers"
}
