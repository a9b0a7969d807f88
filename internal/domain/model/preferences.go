//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/target/runconsole/internal/domain/datetime"
)

// Theme is the console color scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether the theme is supported.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// DateFormat controls how timestamps are rendered.
type DateFormat string

const (
	DateFormatISO    DateFormat = "iso"
	DateFormatLocale DateFormat = "locale"
)

// Valid reports whether the date format is supported.
func (f DateFormat) Valid() bool {
	return f == DateFormatISO || f == DateFormatLocale
}

// RunView is the default presentation of the runs page.
type RunView string

const (
	RunViewList  RunView = "list"
	RunViewTable RunView = "table"
	RunViewGraph RunView = "graph"
)

// Valid reports whether the run view is supported.
func (v RunView) Valid() bool {
	switch v {
	case RunViewList, RunViewTable, RunViewGraph:
		return true
	default:
		return false
	}
}

// RunColumns lists the run table columns a user may show, in display order.
var RunColumns = []string{
	"submittedAt", "runName", "requestor", "group", "submissionId",
	"bundle", "testName", "status", "result", "tags", "duration",
}

// DefaultRunColumns is the column set shown before a user customizes it.
var DefaultRunColumns = []string{"submittedAt", "runName", "requestor", "testName", "status", "result"}

// Preferences holds a user's display preferences.
type Preferences struct {
	UserID     string     `json:"user_id"     db:"user_id"`
	Theme      Theme      `json:"theme"       db:"theme"`
	TimeZone   string     `json:"time_zone"   db:"time_zone"`
	DateFormat DateFormat `json:"date_format" db:"date_format"`
	RunView    RunView    `json:"run_view"    db:"run_view"`
	RunColumns []string   `json:"run_columns" db:"run_columns"`
	UpdatedAt  time.Time  `json:"updated_at"  db:"updated_at"`
}

// DefaultPreferences returns the preferences used until a user saves their own.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:     userID,
		Theme:      ThemeSystem,
		TimeZone:   "UTC",
		DateFormat: DateFormatISO,
		RunView:    RunViewTable,
		RunColumns: slices.Clone(DefaultRunColumns),
	}
}

// UpdatePreferencesRequest represents a partial preferences update.
type UpdatePreferencesRequest struct {
	Theme      *Theme      `json:"theme,omitempty"`
	TimeZone   *string     `json:"time_zone,omitempty"`
	DateFormat *DateFormat `json:"date_format,omitempty"`
	RunView    *RunView    `json:"run_view,omitempty"`
	RunColumns []string    `json:"run_columns,omitempty"`
}

// Validate validates UpdatePreferencesRequest.
func (r *UpdatePreferencesRequest) Validate() error {
	if r.Theme != nil && !r.Theme.Valid() {
		return errors.New("theme must be one of: light, dark, system")
	}
	if r.TimeZone != nil {
		tz := strings.TrimSpace(*r.TimeZone)
		if !datetime.ValidZone(tz) {
			return fmt.Errorf("time_zone %q is not a known IANA zone", tz)
		}
		r.TimeZone = &tz
	}
	if r.DateFormat != nil && !r.DateFormat.Valid() {
		return errors.New("date_format must be one of: iso, locale")
	}
	if r.RunView != nil && !r.RunView.Valid() {
		return errors.New("run_view must be one of: list, table, graph")
	}
	if r.RunColumns != nil {
		if len(r.RunColumns) == 0 {
			return errors.New("run_columns cannot be empty")
		}
		seen := make(map[string]bool, len(r.RunColumns))
		for _, c := range r.RunColumns {
			if !slices.Contains(RunColumns, c) {
				return fmt.Errorf("unknown run column %q", c)
			}
			if seen[c] {
				return fmt.Errorf("duplicate run column %q", c)
			}
			seen[c] = true
		}
	}
	return nil
}

// Apply returns p with the non-nil fields of r applied.
func (r UpdatePreferencesRequest) Apply(p Preferences) Preferences {
	if r.Theme != nil {
		p.Theme = *r.Theme
	}
	if r.TimeZone != nil {
		p.TimeZone = *r.TimeZone
	}
	if r.DateFormat != nil {
		p.DateFormat = *r.DateFormat
	}
	if r.RunView != nil {
		p.RunView = *r.RunView
	}
	if r.RunColumns != nil {
		p.RunColumns = slices.Clone(r.RunColumns)
	}
	return p
}
