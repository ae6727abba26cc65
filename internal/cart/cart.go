// Package cart aggregates menu selections into priced lines and totals.
package cart

import (
	"math"

	"cardapio/internal/model"
)

// Line is one cart row. Selections of the same item and variant share a line.
type Line struct {
	ItemID      string
	VariantID   string
	Name        string
	VariantName string
	Price       float64
	Quantity    int
}

// Key identifies the line: the item id, suffixed with the variant id when present.
func (l Line) Key() string {
	return LineKey(l.ItemID, l.VariantID)
}

// Amount is price times quantity.
func (l Line) Amount() float64 {
	return RoundMoney(l.Price * float64(l.Quantity))
}

// LineKey builds the key for an item/variant pair.
func LineKey(itemID, variantID string) string {
	if variantID == "" {
		return itemID
	}
	return itemID + "-" + variantID
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal    float64
	DeliveryFee float64
	Total       float64
}

// Cart holds lines in insertion order.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of item into the cart. With a variant the variant's
// price is used and its id and name are recorded on the line.
func (c *Cart) Add(item model.MenuItem, variant *model.MenuItemVariant) {
	c.AddQuantity(item, variant, 1)
}

// AddQuantity adds qty units of item. Non-positive quantities are ignored.
func (c *Cart) AddQuantity(item model.MenuItem, variant *model.MenuItemVariant, qty int) {
	if qty <= 0 {
		return
	}

	line := Line{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: qty,
	}
	if variant != nil {
		line.VariantID = variant.ID
		line.VariantName = variant.Name
		line.Price = variant.Price
	}

	if i := c.index(line.Key()); i >= 0 {
		c.lines[i].Quantity += qty
		return
	}
	c.lines = append(c.lines, line)
}

// SetQuantity overwrites a line's quantity; zero or less removes it.
func (c *Cart) SetQuantity(key string, qty int) {
	i := c.index(key)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Quantity = qty
}

// Remove deletes the line with the given key.
func (c *Cart) Remove(key string) {
	c.SetQuantity(key, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity over all lines.
func (c *Cart) Subtotal() float64 {
	sum := 0.0
	for _, l := range c.lines {
		sum += l.Price * float64(l.Quantity)
	}
	return RoundMoney(sum)
}

// Totals adds deliveryFee to the subtotal.
func (c *Cart) Totals(deliveryFee float64) Totals {
	subtotal := c.Subtotal()
	fee := RoundMoney(deliveryFee)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       RoundMoney(subtotal + fee),
	}
}

func (c *Cart) index(key string) int {
	for i, l := range c.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// DeliveryFeeFor returns the fee for a neighborhood. Pickup is free. The
// boolean is false when the neighborhood has no configured fee.
func DeliveryFeeFor(fees []model.DeliveryFee, neighborhood string, pickup bool) (float64, bool) {
	if pickup {
		return 0, true
	}
	for _, f := range fees {
		if f.Neighborhood == neighborhood {
			return f.Fee, true
		}
	}
	return 0, false
}

// RoundMoney rounds to cents, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// SameAmount reports whether two amounts are equal to the cent.
func SameAmount(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
