package lyrics

import "testing"

func TestSearchTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Creep", "Creep"},
		{"Here Comes The Sun - Remastered 2009", "Here Comes The Sun"},
		{"Heroes - 2017 Remaster", "Heroes"},
		{"Stay (feat. Justin Bieber)", "Stay"},
		{"Song [Live at Wembley] - Live", "Song"},
		{"Anti-Hero", "Anti-Hero"},
		{"Up - Down", "Up - Down"},
		{"(Intro)", "(Intro)"},
		{"  spaced   out  ", "spaced out"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SearchTitle(tt.in); got != tt.want {
				t.Errorf("SearchTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
