package brushset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatName(t *testing.T) {
	now := time.Date(2026, 3, 9, 14, 5, 0, 0, time.UTC)
	tests := []struct {
		name     string
		template string
		folder   string
		want     string
	}{
		{name: "default", template: DefaultNameTemplate, folder: "Pencils", want: "Pencils"},
		{name: "empty template", template: "", folder: "Pencils", want: "Pencils"},
		{name: "date", template: "{folder_name} {date}", folder: "Inks", want: "Inks 2026-03-09"},
		{name: "datetime", template: "{datetime} {folder_name}", folder: "Inks", want: "2026-03-09 14:05 Inks"},
		{name: "literal", template: "My Brushes", folder: "Inks", want: "My Brushes"},
		{name: "slashes are flattened", template: "a/{folder_name}", folder: "Inks", want: "a-Inks"},
		{name: "dot dot falls back", template: "..", folder: "Inks", want: "Inks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatName(tt.template, tt.folder, now))
		})
	}
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"set.brushset", "set.brushset"},
		{"set", "set.brushset"},
		{"set.zip", "set.brushset"},
		{"/tmp/dir/My Set.brushset", "/tmp/dir/My Set.brushset"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, WithExtension(tt.in))
		})
	}
}
