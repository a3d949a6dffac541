package common

// AuthorizationHeaderName carries the caller's bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// Image list bounds for a submitted listing.
const (
	MinListingImages = 1
	MaxListingImages = 10
)
