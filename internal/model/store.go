package model

import "time"

// DefaultStoreID is the primary key of the single store row.
const DefaultStoreID = "default-store"

// Store is the restaurant profile.
type Store struct {
	ID                string    `json:"-" db:"id"`
	Name              string    `json:"name" db:"name"`
	Address           string    `json:"address" db:"address"`
	City              string    `json:"city" db:"city"`
	State             string    `json:"state" db:"state"`
	Phone             string    `json:"phone" db:"phone"`
	WhatsApp          string    `json:"whatsapp" db:"whatsapp"`
	Instagram         string    `json:"instagram" db:"instagram"`
	About             string    `json:"about" db:"about"`
	PixKey            string    `json:"pixKey" db:"pix_key"`
	AdminPasswordHash string    `json:"-" db:"admin_password_hash"`
	UpdatedAt         time.Time `json:"-" db:"updated_at"`
}

// StoreHour is the opening window for one weekday.
type StoreHour struct {
	Day    string `json:"day" yaml:"day" db:"day"`
	Open   string `json:"open" yaml:"open" db:"open"`
	Close  string `json:"close" yaml:"close" db:"close"`
	Closed bool   `json:"closed" yaml:"closed" db:"closed"`
}

// DeliveryFee is the flat delivery charge for a neighborhood.
type DeliveryFee struct {
	Neighborhood string  `json:"neighborhood" yaml:"neighborhood" db:"neighborhood"`
	Fee          float64 `json:"fee" yaml:"fee" db:"fee"`
}

// Settings is the store aggregate: profile plus its reference data.
// It is loaded and saved as a unit.
type Settings struct {
	Store          Store         `json:"store"`
	Hours          []StoreHour   `json:"hours"`
	PaymentMethods []string      `json:"paymentMethods"`
	DeliveryFees   []DeliveryFee `json:"deliveryFees"`
}

// UsingDefaultPassword reports whether no custom admin password has been set.
func (s *Settings) UsingDefaultPassword() bool {
	return s.Store.AdminPasswordHash == ""
}

// StoreUpdateRequest is a partial update of the settings aggregate.
// Nil fields are left untouched; non-nil slices replace the stored lists.
type StoreUpdateRequest struct {
	Name           *string        `json:"name,omitempty"`
	Address        *string        `json:"address,omitempty"`
	City           *string        `json:"city,omitempty"`
	State          *string        `json:"state,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	WhatsApp       *string        `json:"whatsapp,omitempty"`
	Instagram      *string        `json:"instagram,omitempty"`
	About          *string        `json:"about,omitempty"`
	PixKey         *string        `json:"pixKey,omitempty"`
	PaymentMethods *[]string      `json:"paymentMethods,omitempty"`
	Hours          *[]StoreHour   `json:"hours,omitempty"`
	DeliveryFees   *[]DeliveryFee `json:"deliveryFees,omitempty"`
}

// StoreInfo is the public view of the store served to the storefront.
type StoreInfo struct {
	Store
	PaymentMethods []string      `json:"paymentMethods"`
	Hours          []StoreHour   `json:"hours"`
	DeliveryFees   []DeliveryFee `json:"deliveryFees"`
	IsOpen         bool          `json:"isOpen"`
}

// StorefrontData is everything the storefront needs to render the menu.
type StorefrontData struct {
	Store      StoreInfo  `json:"store"`
	Categories []Category `json:"categories"`
	MenuItems  []MenuItem `json:"menuItems"`
}
