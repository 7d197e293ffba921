package common

import "time"

// AuthorizationHeaderName carries the bearer token on every authenticated request.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// DefaultTokenValidity is the lifetime of an issued access token. Tokens
// issued with it expire one calendar year later.
const DefaultTokenValidity = 365 * 24 * time.Hour
