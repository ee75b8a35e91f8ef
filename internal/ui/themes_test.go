package ui

import "testing"

func TestSetTheme(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	tests := []struct {
		name     string
		wantName string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetTheme(tt.name)
			if got := GetCurrentTheme().Name; got != tt.wantName {
				t.Errorf("SetTheme(%q): active theme = %q, want %q", tt.name, got, tt.wantName)
			}
		})
	}
}

func TestInitTheme(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	t.Run("flag disables colors", func(t *testing.T) {
		InitTheme(true)
		if GetCurrentTheme().Name != "none" {
			t.Error("InitTheme(true) should activate the no-color theme")
		}
		if ColorGreen() != "" || ColorReset() != "" {
			t.Error("no-color theme must return empty escape codes")
		}
	})

	t.Run("NO_COLOR env disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if GetCurrentTheme().Name != "none" {
			t.Error("NO_COLOR should activate the no-color theme")
		}
	})
}

func TestGetCurrentChartTheme(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	SetCurrentTheme(NoColorTheme)
	if GetCurrentChartTheme() != NoColorChartTheme {
		t.Error("no-color theme should map to the no-color chart palette")
	}

	SetCurrentTheme(DarkTheme)
	if GetCurrentChartTheme() != DarkChartTheme {
		t.Error("dark theme should map to the dark chart palette")
	}
}
