package user

import (
	"errors"
	"strings"
	"time"
)

const DefaultProfilePic = "default-avatar.png"

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never expose hash in JSON
	Gender       string     `json:"gender,omitempty"`
	DOB          *time.Time `json:"dob,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Location     string     `json:"location,omitempty"`
	ProfilePic   string     `json:"profilePic"`
}

// Public is the projection handed back by signup and login.
type Public struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location,omitempty"`
}

func (u User) Public() Public {
	return Public{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Location: u.Location,
	}
}

// New builds a user ready to be persisted. The caller supplies an already
// hashed password.
func New(name, email, passwordHash, location string) User {
	return User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Location:     location,
		ProfilePic:   DefaultProfilePic,
	}
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	// bcrypt only hashes the first 72 bytes and rejects longer input
	Password string `json:"password" binding:"required,min=6,max=72"`
	Location string `json:"location"`
}

// Normalize trims the free-text fields and lowercases the email so checks and
// lookups see the same value that gets stored.
func (r *SignUpRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Location = strings.TrimSpace(r.Location)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
