package request

// Profile is the public identity a player signs up with
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// GuestRequest is the body of POST /api/v1/players/guest
type GuestRequest struct {
	Profile
}

// RegisterRequest is the body of POST /api/v1/players/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Profile
}

// LoginRequest is the body of POST /api/v1/players/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest is the request body for storing an identity
type CreateUserRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Provider string `json:"provider"`
}
