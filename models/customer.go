package models

// Role is the closed set of account kinds.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

type Action int

const (
	ActionViewStats Action = iota + 1
	ActionManageMenu
	ActionManageAdmins
)

// Can is the single authorization table for back-office actions.
func (r Role) Can(a Action) bool {
	switch r {
	case RoleSuperadmin:
		return a == ActionViewStats || a == ActionManageMenu || a == ActionManageAdmins
	case RoleAdmin:
		return a == ActionViewStats || a == ActionManageMenu
	default:
		return false
	}
}

// ParseRole maps a stored role string; anything unknown is a plain customer.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleSuperadmin:
		return Role(s)
	default:
		return RoleCustomer
	}
}

// CustomerData is the optional profile blob. A missing row column resolves to the zero value.
type CustomerData struct {
	Birthday      string `json:"birthday,omitempty"`
	FavoriteDrink string `json:"favorite_drink,omitempty"`
	MarketingOK   bool   `json:"marketing_ok,omitempty"`
}

// Customer is an authenticated account. Anonymous callers are represented by a nil *Customer.
type Customer struct {
	ID            int64
	TelegramID    int64
	Name          string
	Phone         string
	Role          Role
	Language      string
	LoyaltyPoints int64
	Data          CustomerData
}
