package domain

import (
	"strings"
	"time"
	"unicode/utf16"
)

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"size:16;not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// TagPalette is indexed by TagColor. Reordering it recolors every tag.
var TagPalette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#f59e0b", // amber
	"#84cc16", // lime
	"#22c55e", // green
	"#14b8a6", // teal
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#6366f1", // indigo
	"#8b5cf6", // violet
	"#d946ef", // fuchsia
	"#ec4899", // pink
}

func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TagColor maps a normalized name onto TagPalette with a 32-bit wrapping
// polynomial hash over UTF-16 code units.
func TagColor(name string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(name)) {
		h = 31*h + int32(unit)
	}
	idx := int(h) % len(TagPalette)
	if idx < 0 {
		idx = -idx
	}
	return TagPalette[idx]
}

func NewTag(name string) Tag {
	n := NormalizeTagName(name)
	return Tag{Name: n, Color: TagColor(n)}
}
