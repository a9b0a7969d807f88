//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTokenDescriptionLen = 255

// TokenOwner identifies who a personal access token belongs to.
type TokenOwner struct {
	LoginID string `json:"loginId"`
}

// Token is a personal access token's metadata. The secret is never listed.
type Token struct {
	ID           string     `json:"tokenId"`
	Description  string     `json:"description"`
	CreationTime time.Time  `json:"creationTime"`
	Owner        TokenOwner `json:"owner"`
}

// CreateTokenRequest represents parameters to mint a token.
type CreateTokenRequest struct {
	Description string `json:"description"`
}

// Validate validates and normalizes CreateTokenRequest.
func (r *CreateTokenRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return errors.New("description is required")
	}
	if utf8.RuneCountInString(r.Description) > maxTokenDescriptionLen {
		return errors.New("description cannot exceed 255 characters")
	}
	return nil
}

// CreatedToken is returned once at creation and carries the secret value.
type CreatedToken struct {
	Token
	Secret string `json:"token"`
}
