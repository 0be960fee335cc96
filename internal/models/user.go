package models

import (
	"io"
	"time"
)

// User represents a user in the system
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"` // FirstName + LastName, not unique
	PasswordHash  string    `json:"-"`        // Never serialize password hash
	SecurityStamp string    `json:"-"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ProfilePic    string    `json:"profilePic"` // Relative path, empty when no picture was uploaded
	CreatedAt     time.Time `json:"createdAt"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Upload is a profile picture attached to a registration request.
// Filename is the name declared by the client and is never trusted as a path.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned to the client after a successful login
type LoginResponse struct {
	Token      string    `json:"token"`
	UserID     string    `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	ProfilePic string    `json:"profilePic"`
	Email      string    `json:"email"`
	Expiration time.Time `json:"expiration"`
}

// StatusResponse is the body of registration responses and error responses
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ClaimsResponse describes the claims carried by a validated bearer token
type ClaimsResponse struct {
	Subject    string    `json:"subject"`
	TokenID    string    `json:"tokenId"`
	Roles      []string  `json:"roles"`
	Expiration time.Time `json:"expiration"`
}
