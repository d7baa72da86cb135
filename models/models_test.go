package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoleCan(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleCustomer, ActionViewStats, false},
		{RoleCustomer, ActionManageMenu, false},
		{RoleAdmin, ActionViewStats, true},
		{RoleAdmin, ActionManageMenu, true},
		{RoleAdmin, ActionManageAdmins, false},
		{RoleSuperadmin, ActionManageAdmins, true},
		{Role(""), ActionViewStats, false},
	}
	for _, tt := range tests {
		if got := tt.role.Can(tt.action); got != tt.want {
			t.Errorf("%q.Can(%d) = %v, want %v", tt.role, tt.action, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"superadmin", RoleSuperadmin},
		{"customer", RoleCustomer},
		{"", RoleCustomer},
		{"root", RoleCustomer},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCartLineTotal(t *testing.T) {
	l := CartLine{Item: MenuItem{Price: decimal.RequireFromString("2.50")}, Quantity: 2}
	if got := l.LineTotal(); !got.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("LineTotal() = %s, want 5.00", got)
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory(CategoryCoffee) {
		t.Error("coffee should be a valid category")
	}
	if ValidCategory("food") {
		t.Error("food should not be a valid category")
	}
}
