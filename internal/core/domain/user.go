package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleAdvisor = "advisor"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserDisabled = errors.New("account disabled")
var ErrLockedOut = errors.New("too many failed attempts")
var ErrWeakPassword = errors.New("password too weak")

// Advisor models a staff account that may post bulletins. Distinct from
// the free-text advisor name shown on a bulletin: an advisor may post
// under another advisor's display name.
type Advisor struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Disabled     bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanManage reports whether an account may mutate the given bulletin:
// the original poster always can, and admins can manage everything.
func CanManage(username, role string, b *Bulletin) bool {
	return role == RoleAdmin || username == b.PostedBy
}

// advisorDirectory maps known usernames to their display names. Unknown
// usernames display as typed.
var advisorDirectory = map[string]string{
	"admin":     "Administrator",
	"jorge":     "Jorge",
	"fabiola":   "Fabiola",
	"leidy":     "Leidy",
	"carmen":    "Carmen",
	"jerome":    "Jerome",
	"felipe":    "Felipe",
	"simonetta": "Simonetta",
	"mike":      "Mike K.",
	"leah":      "Leah",
}

// DisplayNameFor resolves a username through the static advisor directory.
func DisplayNameFor(username string) string {
	if name, ok := advisorDirectory[username]; ok {
		return name
	}
	return username
}
