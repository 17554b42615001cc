package similarity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestQueryScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		label string
		want  float32
	}{
		{"exact", "Login", "login", ExactScore},
		{"label inside query", "tap login button", "Login", ContainmentScore},
		{"query inside label", "login", "Login Now", ContainmentScore},
		{"synonym after stop words", "tap sign in", "Login", SynonymScore},
		{"synonym field", "enter password field", "Pwd", SynonymScore},
		{"order insensitive", "settings profile", "profile settings", ExactScore},
		{"partial words", "login with google", "Sign in with Google", (SynonymScore + 2*ExactScore) / 3},
		{"only stop words", "tap the", "OK", 0},
		{"nonsense", "xyzzy nonsense", "Submit", 0},
		{"empty label", "tap submit", "", 0},
		{"trailing space is not exact", "submit ", "Submit", ContainmentScore},
		{"blank label", "tap submit", "   ", 0},
		{"empty query", "", "Submit", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QueryScore(tt.query, tt.label); !approxEqual(got, tt.want) {
				t.Errorf("QueryScore(%q, %q) = %v, want %v", tt.query, tt.label, got, tt.want)
			}
		})
	}
}

func TestQueryScore_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"submit submit submit", "submit"},
		{"ok okay", "ok okay confirm"},
		{"log in", "login log sign"},
	}
	for _, p := range pairs {
		got := QueryScore(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("QueryScore(%q, %q) = %v, want within [0,1]", p[0], p[1], got)
		}
	}
}

func TestQueryTokens(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"Tap the Login button", []string{"login", "button"}},
		{"  press   digit 3 ", []string{"digit", "3"}},
		{"click on the field", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		got := QueryTokens(tt.query)
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("QueryTokens(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"tap", "Click", "FIELD", "the"} {
		if !IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"login", "digit", "button"} {
		if IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = true, want false", w)
		}
	}
}
