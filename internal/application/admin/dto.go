package admin

import "time"

// LoginRequest is the admin sign-in form
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// LoginResponse carries the issued admin token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

// Session describes an authenticated admin request
type Session struct {
	Username  string
	TokenID   string
	ExpiresAt time.Time
}
