package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrInvalidProfile wraps every signup validation failure
var ErrInvalidProfile = errors.New("invalid profile")

const (
	maxNameLength     = 32
	minUsernameLength = 3
	maxUsernameLength = 24
	minPasswordLength = 8
)

// Profile is what a player supplies about themselves when signing up. It
// becomes the identity other players see in a room.
type Profile struct {
	Name   string
	Email  string
	Avatar string
}

// Normalize trims surrounding whitespace from every field
func (p Profile) Normalize() Profile {
	return Profile{
		Name:   strings.TrimSpace(p.Name),
		Email:  strings.TrimSpace(p.Email),
		Avatar: strings.TrimSpace(p.Avatar),
	}
}

// Validate requires a name and checks the optional email and avatar
func (p Profile) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	case utf8.RuneCountInString(p.Name) > maxNameLength:
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidProfile, maxNameLength)
	}

	if p.Email != "" {
		addr, err := mail.ParseAddress(p.Email)
		if err != nil || addr.Address != p.Email {
			return fmt.Errorf("%w: email is not a plain address", ErrInvalidProfile)
		}
	}

	if p.Avatar != "" {
		u, err := url.ParseRequestURI(p.Avatar)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: avatar must be an http(s) URL", ErrInvalidProfile)
		}
	}
	return nil
}

// Credentials sign a local account in
type Credentials struct {
	Username string
	Password string
}

// Validate checks a username and password chosen at signup
func (c Credentials) Validate() error {
	n := len(c.Username)
	if n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf("%w: username must be %d to %d characters", ErrInvalidProfile, minUsernameLength, maxUsernameLength)
	}
	for _, r := range c.Username {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return fmt.Errorf("%w: username may only use a-z, 0-9 and _", ErrInvalidProfile)
		}
	}
	if utf8.RuneCountInString(c.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidProfile, minPasswordLength)
	}
	return nil
}
