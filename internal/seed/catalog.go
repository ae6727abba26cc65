package seed

import (
	"errors"
	"fmt"
	"strings"

	"cardapio/internal/model"
	"cardapio/internal/schedule"

	"gopkg.in/yaml.v3"
)

// Catalog is the seed document: the store profile with its reference data,
// categories in display order, and menu items.
type Catalog struct {
	Store          StoreProfile        `yaml:"store"`
	Hours          []model.StoreHour   `yaml:"hours"`
	PaymentMethods []string            `yaml:"paymentMethods"`
	DeliveryFees   []model.DeliveryFee `yaml:"deliveryFees"`
	Categories     []CategoryEntry     `yaml:"categories"`
	MenuItems      []MenuItemEntry     `yaml:"menuItems"`
}

// StoreProfile mirrors the editable store fields.
type StoreProfile struct {
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	City      string `yaml:"city"`
	State     string `yaml:"state"`
	Phone     string `yaml:"phone"`
	WhatsApp  string `yaml:"whatsapp"`
	Instagram string `yaml:"instagram"`
	About     string `yaml:"about"`
	PixKey    string `yaml:"pixKey"`
}

type CategoryEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type MenuItemEntry struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Price       float64        `yaml:"price"`
	Image       string         `yaml:"image"`
	Category    string         `yaml:"category"`
	Available   *bool          `yaml:"available"`
	Variants    []VariantEntry `yaml:"variants"`
}

type VariantEntry struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Price     float64 `yaml:"price"`
	Available *bool   `yaml:"available"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal serializes a catalog to YAML.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(c)
}

func applyDefaults(c *Catalog) {
	yes := true
	for i := range c.MenuItems {
		item := &c.MenuItems[i]
		if item.Image == "" {
			item.Image = model.DefaultMenuImage
		}
		if item.Available == nil {
			item.Available = &yes
		}
		for j := range item.Variants {
			if item.Variants[j].Available == nil {
				item.Variants[j].Available = &yes
			}
		}
	}
}

// Validate checks references and required fields, reporting every problem found.
func (c *Catalog) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Store.Name) == "" {
		errs = append(errs, errors.New("store.name is required"))
	}
	if err := schedule.Validate(c.Hours); err != nil {
		errs = append(errs, fmt.Errorf("hours: %w", err))
	}

	categories := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		switch {
		case cat.ID == "" || cat.Name == "":
			errs = append(errs, fmt.Errorf("categories[%d]: id and name are required", i))
		case categories[cat.ID]:
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate id %q", i, cat.ID))
		}
		categories[cat.ID] = true
	}

	items := make(map[string]bool, len(c.MenuItems))
	for i, item := range c.MenuItems {
		switch {
		case item.ID == "" || item.Name == "":
			errs = append(errs, fmt.Errorf("menuItems[%d]: id and name are required", i))
		case items[item.ID]:
			errs = append(errs, fmt.Errorf("menuItems[%d]: duplicate id %q", i, item.ID))
		case !categories[item.Category]:
			errs = append(errs, fmt.Errorf("menuItems[%d]: unknown category %q", i, item.Category))
		case item.Price < 0:
			errs = append(errs, fmt.Errorf("menuItems[%d]: negative price", i))
		}
		items[item.ID] = true

		for j, v := range item.Variants {
			if v.Name == "" || v.Price < 0 {
				errs = append(errs, fmt.Errorf("menuItems[%d].variants[%d]: name and a non-negative price are required", i, j))
			}
		}
	}

	for i, f := range c.DeliveryFees {
		if f.Neighborhood == "" || f.Fee < 0 {
			errs = append(errs, fmt.Errorf("deliveryFees[%d]: neighborhood and a non-negative fee are required", i))
		}
	}

	return errors.Join(errs...)
}

// Settings converts the store part of the catalog into the settings aggregate.
func (c *Catalog) Settings() *model.Settings {
	p := c.Store
	return &model.Settings{
		Store: model.Store{
			ID:        model.DefaultStoreID,
			Name:      p.Name,
			Address:   p.Address,
			City:      p.City,
			State:     p.State,
			Phone:     p.Phone,
			WhatsApp:  p.WhatsApp,
			Instagram: p.Instagram,
			About:     p.About,
			PixKey:    p.PixKey,
		},
		Hours:          c.Hours,
		PaymentMethods: c.PaymentMethods,
		DeliveryFees:   c.DeliveryFees,
	}
}

// MenuItem converts an entry into a model item with its variants.
func (e *MenuItemEntry) MenuItem() model.MenuItem {
	item := model.MenuItem{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		Image:       e.Image,
		CategoryID:  e.Category,
		Available:   e.Available == nil || *e.Available,
		Variants:    make([]model.MenuItemVariant, 0, len(e.Variants)),
	}
	for _, v := range e.Variants {
		item.Variants = append(item.Variants, model.MenuItemVariant{
			ID:         v.ID,
			MenuItemID: e.ID,
			Name:       v.Name,
			Price:      v.Price,
			Available:  v.Available == nil || *v.Available,
		})
	}
	item.DisplayPrice = item.ComputeDisplayPrice()
	return item
}

func categoryFromEntry(e CategoryEntry) model.Category {
	return model.Category{ID: e.ID, Name: e.Name, Icon: e.Icon}
}
