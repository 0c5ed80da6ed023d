package loot

import "errors"

// Category is the rarity tier of a tree.
type Category uint8

const (
	CategoryCommon Category = iota
	CategoryUncommon
	CategoryRare
	CategoryEpic
	CategoryLegendary
	CategoryMythic

	categoryCount
)

// MaxCategories bounds the number of distinct categories a table may use.
const MaxCategories = 16

// ErrUnknownCategory indicates a category index or name outside the defined set.
var ErrUnknownCategory = errors.New("unknown category")

var categoryNames = [categoryCount]string{
	CategoryCommon:    "COMMON",
	CategoryUncommon:  "UNCOMMON",
	CategoryRare:      "RARE",
	CategoryEpic:      "EPIC",
	CategoryLegendary: "LEGENDARY",
	CategoryMythic:    "MYTHIC",
}

func (c Category) String() string {
	if c < categoryCount {
		return categoryNames[c]
	}
	return "UNKNOWN"
}

// Valid reports whether the category is one of the defined tiers.
func (c Category) Valid() bool {
	return c < categoryCount
}

// CategoryFromIndex converts a raw index into a Category.
//
// Raw numeric coercion is never used for category values; any out-of-range
// index is a hard failure, not a best-effort cast.
func CategoryFromIndex(index uint8) (Category, error) {
	c := Category(index)
	if !c.Valid() {
		return 0, ErrUnknownCategory
	}
	return c, nil
}

// ParseCategory converts a configuration name into a Category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, ErrUnknownCategory
}
