package adminauth

import "time"

// Config drives back-office operator authentication.
type Config struct {
	Secret    string
	TokenTTL  time.Duration
	Operators []Operator
}

// Operator is a statically provisioned back-office account.
type Operator struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
}

// LoginRequest captures operator login details.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the signed operator token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Operator  OperatorView `json:"operator"`
}

// OperatorView trims credential fields.
type OperatorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Claims are extracted from an operator token.
type Claims struct {
	OperatorID string
	Username   string
	Role       string
	ExpiresAt  time.Time
}
