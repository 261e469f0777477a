package entity

import "time"

// Account is a wallet that has logged in at least once.
type Account struct {
	Address     string     `json:"address"`
	Role        string     `json:"role"`
	LoginCount  int        `json:"login_count"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Challenge is the message a wallet signs to prove control of Address.
type Challenge struct {
	Address   string    `json:"address"`
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Session struct {
	Token     string    `json:"token"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
