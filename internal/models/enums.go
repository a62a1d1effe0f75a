package models

import (
	"strings"

	"github.com/soundstore/soundstore/pkg/fault"
)

// ProductState tracks catalog availability.
type ProductState int

const (
	InStock ProductState = iota
	OutOfStock
)

func (s ProductState) String() string {
	switch s {
	case InStock:
		return "InStock"
	case OutOfStock:
		return "OutOfStock"
	default:
		return "Unknown"
	}
}

// ParseProductState accepts state names case-insensitively.
func ParseProductState(s string) (ProductState, error) {
	switch {
	case strings.EqualFold(s, "InStock"):
		return InStock, nil
	case strings.EqualFold(s, "OutOfStock"):
		return OutOfStock, nil
	}
	return 0, fault.Invalid("%q is not a product state", s)
}

// UserState tracks account lifecycle.
type UserState int

const (
	Active UserState = iota
	Inactive
)

func (s UserState) String() string {
	switch s {
	case Active:
		return "Active"
	case Inactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// ParseUserState accepts state names case-insensitively.
func ParseUserState(s string) (UserState, error) {
	switch {
	case strings.EqualFold(s, "Active"):
		return Active, nil
	case strings.EqualFold(s, "Inactive"):
		return Inactive, nil
	}
	return 0, fault.Invalid("%q is not a user state", s)
}
