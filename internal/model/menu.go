package model

import "time"

// Category groups menu items on the storefront.
type Category struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Icon      string `json:"icon" db:"icon"`
	SortOrder int    `json:"sortOrder" db:"sort_order"`
}

// MenuItem represents a dish or drink on the menu.
type MenuItem struct {
	ID           string            `json:"id" db:"id"`
	Name         string            `json:"name" db:"name"`
	Description  string            `json:"description" db:"description"`
	Price        float64           `json:"price" db:"price"`
	DisplayPrice float64           `json:"displayPrice" db:"-"`
	Image        string            `json:"image" db:"image"`
	CategoryID   string            `json:"category" db:"category_id"`
	Available    bool              `json:"available" db:"available"`
	Variants     []MenuItemVariant `json:"variants"`
	CreatedAt    time.Time         `json:"-" db:"created_at"`
	UpdatedAt    time.Time         `json:"-" db:"updated_at"`
}

// MenuItemVariant is a priced sub-option of a menu item, e.g. a flavour.
type MenuItemVariant struct {
	ID         string  `json:"id" db:"id"`
	MenuItemID string  `json:"-" db:"menu_item_id"`
	Name       string  `json:"name" db:"name"`
	Price      float64 `json:"price" db:"price"`
	Available  bool    `json:"available" db:"available"`
}

// DefaultMenuImage is used when a menu item is created without an image.
const DefaultMenuImage = "/images/hero-bg.jpg"

// HasVariants reports whether the item is sold through variants.
func (m *MenuItem) HasVariants() bool {
	return len(m.Variants) > 0
}

// Variant returns the variant with the given id, or nil.
func (m *MenuItem) Variant(id string) *MenuItemVariant {
	for i := range m.Variants {
		if m.Variants[i].ID == id {
			return &m.Variants[i]
		}
	}
	return nil
}

// ComputeDisplayPrice returns the price shown on the storefront: the cheapest
// available variant, the cheapest variant when none is available, or the
// item's own price when it has no variants.
func (m *MenuItem) ComputeDisplayPrice() float64 {
	if len(m.Variants) == 0 {
		return m.Price
	}

	lowest, found := 0.0, false
	for _, v := range m.Variants {
		if !v.Available {
			continue
		}
		if !found || v.Price < lowest {
			lowest, found = v.Price, true
		}
	}
	if found {
		return lowest
	}

	lowest = m.Variants[0].Price
	for _, v := range m.Variants[1:] {
		if v.Price < lowest {
			lowest = v.Price
		}
	}
	return lowest
}

// CategoryRequest is the payload for creating a category.
type CategoryRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoryUpdateRequest is a partial category update.
type CategoryUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	SortOrder *int    `json:"sortOrder,omitempty"`
}

// ReorderRequest lists category ids in their new display order.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// VariantRequest describes a variant in a menu item payload.
type VariantRequest struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available *bool   `json:"available,omitempty"`
}

// MenuItemRequest is the payload for creating a menu item.
type MenuItemRequest struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *float64         `json:"price"`
	Image       string           `json:"image,omitempty"`
	Category    string           `json:"category"`
	Available   *bool            `json:"available,omitempty"`
	Variants    []VariantRequest `json:"variants,omitempty"`
}

// MenuItemUpdateRequest is a partial menu item update. A non-nil Variants
// replaces every variant of the item.
type MenuItemUpdateRequest struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Image       *string           `json:"image,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Available   *bool             `json:"available,omitempty"`
	Variants    *[]VariantRequest `json:"variants,omitempty"`
}
