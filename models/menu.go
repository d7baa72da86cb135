package models

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID          string
	Category    string // one of the Category* constants
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	IsNew       bool
	OutOfStock  bool
}

// Available reports whether the item may be offered to a cart.
func (m MenuItem) Available() bool {
	return !m.OutOfStock
}

const (
	CategoryCoffee  = "coffee"
	CategoryTea     = "tea"
	CategoryCold    = "cold"
	CategoryPastry  = "pastry"
	CategoryDessert = "dessert"
)

// Categories lists the menu sections in display order.
var Categories = []string{CategoryCoffee, CategoryTea, CategoryCold, CategoryPastry, CategoryDessert}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
