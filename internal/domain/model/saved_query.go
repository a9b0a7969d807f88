//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxSavedQueryNameLen = 64
	// MaxSavedQueryRangeHours bounds the relative window of a saved query (90 days).
	MaxSavedQueryRangeHours = 90 * 24
	defaultSavedQueryRange  = 24
)

// SavedQuery is a named run search a user can re-run. The range is relative
// and anchored at the time the query is resolved.
type SavedQuery struct {
	ID         string          `json:"id"          db:"id"`
	UserID     string          `json:"user_id"     db:"user_id"`
	Name       string          `json:"name"        db:"name"`
	Filter     RunSearchFilter `json:"filter"      db:"filter"`
	RangeHours int             `json:"range_hours" db:"range_hours"`
	CreatedAt  time.Time       `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"  db:"updated_at"`
}

// Query anchors the saved query at now.
func (q SavedQuery) Query(now time.Time) RunQuery {
	return RunQuery{
		From:   now.Add(-time.Duration(q.RangeHours) * time.Hour),
		To:     now,
		Filter: q.Filter,
	}
}

// CreateSavedQueryRequest represents parameters to create a SavedQuery.
type CreateSavedQueryRequest struct {
	Name       string          `json:"name"`
	Filter     RunSearchFilter `json:"filter"`
	RangeHours int             `json:"range_hours,omitempty"`
}

// Validate validates and normalizes CreateSavedQueryRequest.
func (r *CreateSavedQueryRequest) Validate() error {
	name, err := validateSavedQueryName(r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	if r.RangeHours == 0 {
		r.RangeHours = defaultSavedQueryRange
	}
	if err := validateRangeHours(r.RangeHours); err != nil {
		return err
	}
	r.Filter = r.Filter.Normalize()
	return nil
}

// UpdateSavedQueryRequest represents a partial SavedQuery update.
type UpdateSavedQueryRequest struct {
	Name       *string          `json:"name,omitempty"`
	Filter     *RunSearchFilter `json:"filter,omitempty"`
	RangeHours *int             `json:"range_hours,omitempty"`
}

// Validate validates and normalizes UpdateSavedQueryRequest.
func (r *UpdateSavedQueryRequest) Validate() error {
	if r.Name == nil && r.Filter == nil && r.RangeHours == nil {
		return errors.New("at least one field must be provided")
	}
	if r.Name != nil {
		name, err := validateSavedQueryName(*r.Name)
		if err != nil {
			return err
		}
		r.Name = &name
	}
	if r.RangeHours != nil {
		if err := validateRangeHours(*r.RangeHours); err != nil {
			return err
		}
	}
	if r.Filter != nil {
		f := r.Filter.Normalize()
		r.Filter = &f
	}
	return nil
}

func validateSavedQueryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxSavedQueryNameLen {
		return "", errors.New("name cannot exceed 64 characters")
	}
	return name, nil
}

func validateRangeHours(h int) error {
	if h <= 0 || h > MaxSavedQueryRangeHours {
		return errors.New("range_hours must be between 1 and 2160")
	}
	return nil
}
