package language

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		input     string
		want      string
		recognize bool
	}{
		{"Danish", "Danish", true},
		{"danish", "Danish", true},
		{"Dansk", "Danish", true},
		{"DANSK", "Danish", true},
		{"da", "Danish", true},
		{"dan", "Danish", true},
		{"da-DK", "Danish", true},
		{"English", English, true},
		{"en-GB", English, true},
		{"Deutsch", "German", true},
		{"german", "German", true},
		{"Français", "French", true},
		{"norsk", "Norwegian", true},
		{"ger", English, false},
		{"de", English, false},
		{"no", English, false},
		{"it", English, false},
		{"nb", English, false},
		{"", English, false},
		{"klingon", English, false},
	}
	for _, tt := range tests {
		got, ok := Resolve(tt.input)
		if got != tt.want || ok != tt.recognize {
			t.Fatalf("Resolve(%q) = %q,%v want %q,%v", tt.input, got, ok, tt.want, tt.recognize)
		}
	}
}

func TestIsEnglish(t *testing.T) {
	if !IsEnglish("") || !IsEnglish("english") || !IsEnglish("unknown-thing") {
		t.Fatal("expected English for empty, english, and unrecognized input")
	}
	if IsEnglish("dansk") {
		t.Fatal("dansk must not resolve to English")
	}
}
