package ui

import "testing"

func TestInitTheme(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	t.Setenv("NO_COLOR", "")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR present should disable colors, got %q", GetCurrentTheme().Name)
	}

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("no-color theme should emit no escape sequences")
	}
	if GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("no-color theme should select the plain dashboard palette")
	}
}

func TestSetTheme(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	tests := []struct{ in, want string }{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"neon", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.in)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) selected %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaint(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	SetCurrentTheme(DarkTheme)
	if got := Paint(ColorGreen(), "ok"); got != DarkTheme.Success+"ok"+DarkTheme.Reset {
		t.Errorf("Paint = %q", got)
	}
	SetCurrentTheme(NoColorTheme)
	if got := Paint(ColorGreen(), "ok"); got != "ok" {
		t.Errorf("Paint without colors = %q, want %q", got, "ok")
	}
}
