package models

import "time"

// UserProfile is the identity-linked public record of a user. Its ID is the
// identity provider's user id.
type UserProfile struct {
	ID                 string             `json:"id"`
	FullName           string             `json:"full_name"`
	Username           *string            `json:"username,omitempty"`
	Phone              string             `json:"phone_number"`
	City               string             `json:"city"`
	Address            *string            `json:"address,omitempty"`
	Bio                string             `json:"bio"`
	AvatarRef          string             `json:"avatar_url"`
	UserType           UserType           `json:"user_type"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// UserWithRole pairs a profile with its effective role for admin views.
type UserWithRole struct {
	UserProfile
	Role Role `json:"role"`
}

// UserRole is a stored role binding. There is at most one per user.
type UserRole struct {
	UserID    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
