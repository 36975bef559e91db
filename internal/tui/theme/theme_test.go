package theme

import (
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
	}{
		{name: "load mocha theme", themeName: "mocha", wantName: "mocha"},
		{name: "load latte theme", themeName: "latte", wantName: "latte"},
		{name: "case insensitive", themeName: "Latte", wantName: "latte"},
		{name: "empty name defaults to mocha", themeName: "", wantName: "mocha"},
		{name: "invalid theme falls back to mocha", themeName: "nonexistent", wantName: "mocha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Load(tt.themeName).Name; got != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, got, tt.wantName)
			}
		})
	}
}

func TestLoad_ReturnsCopy(t *testing.T) {
	a := Load("mocha")
	a.Bg = "#000000"
	if Load("mocha").Bg == "#000000" {
		t.Error("modifying a loaded theme changed the builtin")
	}
}

func TestAvailable(t *testing.T) {
	names := Available()
	if len(names) != 2 || names[0] != "latte" || names[1] != "mocha" {
		t.Errorf("Available() = %v, want [latte mocha]", names)
	}
	for _, name := range names {
		if !IsAvailable(name) {
			t.Errorf("IsAvailable(%q) = false", name)
		}
	}
	if IsAvailable("solarized") {
		t.Error("IsAvailable(solarized) = true")
	}
}

func TestIsLight(t *testing.T) {
	tests := []struct {
		bg   string
		want bool
	}{
		{Load("mocha").Bg, false},
		{Load("latte").Bg, true},
		{"#ffffff", true},
		{"#000000", false},
		{"not a color", false},
	}
	for _, tt := range tests {
		if got := IsLight(tt.bg); got != tt.want {
			t.Errorf("IsLight(%q) = %v, want %v", tt.bg, got, tt.want)
		}
	}
}

func TestTextOn(t *testing.T) {
	if got := TextOn("#101010", "#000000", "#ffffff"); got != "#ffffff" {
		t.Errorf("TextOn(dark) = %q, want white", got)
	}
	if got := TextOn("#f0f0f0", "#000000", "#ffffff"); got != "#000000" {
		t.Errorf("TextOn(light) = %q, want black", got)
	}
	if got := TextOn("bad", "#000000", "#ffffff"); got != "#ffffff" {
		t.Errorf("TextOn(bad) = %q, want fallback", got)
	}
}

func TestNewPalette(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			th := Load(name)
			p := NewPalette(th)
			if string(p.Bg) != th.Bg {
				t.Errorf("Bg = %q, want %q", p.Bg, th.Bg)
			}
			for label, c := range map[string]string{"busy": string(p.BusyBg), "warning": string(p.WarningBg), "full": string(p.FullBg)} {
				if len(c) != 7 || c[0] != '#' {
					t.Errorf("%s background = %q, want a hex color", label, c)
				}
			}
			if p.BusyBg == p.FullBg {
				t.Error("busy and full backgrounds should differ")
			}
		})
	}

	if NewPalette(nil).Bg != NewPalette(Load("mocha")).Bg {
		t.Error("nil theme should use mocha")
	}
}
