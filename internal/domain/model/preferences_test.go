package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdatePreferencesRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     UpdatePreferencesRequest
		wantErr bool
	}{
		{"empty update", UpdatePreferencesRequest{}, false},
		{"valid theme", UpdatePreferencesRequest{Theme: ptr(ThemeDark)}, false},
		{"invalid theme", UpdatePreferencesRequest{Theme: ptr(Theme("neon"))}, true},
		{"valid zone", UpdatePreferencesRequest{TimeZone: ptr(" Europe/London ")}, false},
		{"invalid zone", UpdatePreferencesRequest{TimeZone: ptr("Moon/Base")}, true},
		{"invalid date format", UpdatePreferencesRequest{DateFormat: ptr(DateFormat("us"))}, true},
		{"invalid view", UpdatePreferencesRequest{RunView: ptr(RunView("cards"))}, true},
		{"valid columns", UpdatePreferencesRequest{RunColumns: []string{"runName", "result"}}, false},
		{"empty columns", UpdatePreferencesRequest{RunColumns: []string{}}, true},
		{"unknown column", UpdatePreferencesRequest{RunColumns: []string{"runName", "cpu"}}, true},
		{"duplicate column", UpdatePreferencesRequest{RunColumns: []string{"runName", "runName"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := tt.req
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUpdatePreferencesRequest_Apply(t *testing.T) {
	t.Parallel()

	base := DefaultPreferences("alice")
	req := UpdatePreferencesRequest{TimeZone: ptr(" Asia/Tokyo "), RunView: ptr(RunViewGraph)}
	require.NoError(t, req.Validate())

	got := req.Apply(base)
	assert.Equal(t, "Asia/Tokyo", got.TimeZone)
	assert.Equal(t, RunViewGraph, got.RunView)
	assert.Equal(t, base.Theme, got.Theme)
	assert.Equal(t, base.RunColumns, got.RunColumns)
}

func TestDefaultPreferences_ColumnsNotShared(t *testing.T) {
	t.Parallel()

	p := DefaultPreferences("bob")
	p.RunColumns[0] = "mutated"
	assert.NotEqual(t, "mutated", DefaultRunColumns[0])
}
