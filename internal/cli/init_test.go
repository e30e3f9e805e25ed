package cli

import "testing"

func TestStoreNameFromLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"/home/dev/notes", "notes"},
		{"/home/dev/work.db", "work"},
		{"notes", "notes"},
		{"/", "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			if got := storeNameFromLocation(tt.location); got != tt.want {
				t.Errorf("storeNameFromLocation(%q) = %q, want %q", tt.location, got, tt.want)
			}
		})
	}
}
