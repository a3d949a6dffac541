// Package models defines the server-side domain types persisted in the
// database. Closed enumerations reject unknown values both when parsed from
// input and when scanned from a row.
package models

import (
	"fmt"
	"strings"
)

// Role is a user's single authorization role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// DefaultRole is the effective role of a user without an explicit binding.
const DefaultRole = RoleUser

// ParseRole accepts only the three known role names.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleModerator, RoleUser:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r *Role) Scan(src any) error { return scanEnum(src, r, ParseRole) }

// Status is a listing's lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusSold     Status = "sold"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusSold:
		return st, nil
	}
	return "", fmt.Errorf("unknown listing status %q", s)
}

// Terminal reports whether no transition leaves this status.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusSold
}

func (s *Status) Scan(src any) error { return scanEnum(src, s, ParseStatus) }

// Category is the kind of vehicle.
type Category string

const (
	CategoryBike    Category = "bike"
	CategoryScooter Category = "scooter"
	CategoryCar     Category = "car"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryBike, CategoryScooter, CategoryCar:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c *Category) Scan(src any) error { return scanEnum(src, c, ParseCategory) }

// Condition describes the vehicle's wear.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionUsed      Condition = "used"
	ConditionCertified Condition = "certified"
)

func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.ToLower(strings.TrimSpace(s))); c {
	case ConditionNew, ConditionUsed, ConditionCertified:
		return c, nil
	}
	return "", fmt.Errorf("unknown condition %q", s)
}

func (c *Condition) Scan(src any) error { return scanEnum(src, c, ParseCondition) }

type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
)

func ParseUserType(s string) (UserType, error) {
	switch u := UserType(strings.ToLower(strings.TrimSpace(s))); u {
	case UserTypeBuyer, UserTypeSeller:
		return u, nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

func (u *UserType) Scan(src any) error { return scanEnum(src, u, ParseUserType) }

type VerificationStatus string

const (
	Verified   VerificationStatus = "verified"
	Unverified VerificationStatus = "unverified"
)

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch v := VerificationStatus(s); v {
	case Verified, Unverified:
		return v, nil
	}
	return "", fmt.Errorf("unknown verification status %q", s)
}

func (v *VerificationStatus) Scan(src any) error { return scanEnum(src, v, ParseVerificationStatus) }

func scanEnum[T ~string](src any, dst *T, parse func(string) (T, error)) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
	parsed, err := parse(s)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
