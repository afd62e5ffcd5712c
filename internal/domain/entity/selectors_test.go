package entity

import (
	"reflect"
	"testing"
)

func TestSelectors_Merge(t *testing.T) {
	base := DefaultSelectors()
	override := Selectors{
		Submit:          []string{"#go"},
		ChallengeScript: "() => true",
	}

	got := base.Merge(override)

	if !reflect.DeepEqual(got.Submit, []string{"#go"}) {
		t.Errorf("Submit = %v, want whole replacement", got.Submit)
	}
	if !reflect.DeepEqual(got.Username, base.Username) {
		t.Errorf("Username changed: %v", got.Username)
	}
	if got.ChallengeScript != "() => true" {
		t.Errorf("ChallengeScript = %q", got.ChallengeScript)
	}

	override.Submit[0] = "#mutated"
	if got.Submit[0] != "#go" {
		t.Error("merged list aliases the override slice")
	}
}

func TestSelectors_MergeBlankScriptKeepsDefault(t *testing.T) {
	got := DefaultSelectors().Merge(Selectors{ChallengeScript: "   "})
	if got.ChallengeScript != defaultChallengeScript {
		t.Error("blank override replaced the default challenge script")
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name       string
		selectors  []string
		ip         string
		buttonText string
		want       []string
	}{
		{
			name:      "ip placeholder",
			selectors: []string{`tr:has-text("{ip}")`, `td:has-text("{ip}")`},
			ip:        "203.0.113.7",
			want:      []string{`tr:has-text("203.0.113.7")`, `td:has-text("203.0.113.7")`},
		},
		{
			name:       "button text placeholder",
			selectors:  []string{`li:has-text("{button_text}") a`, `li.ip_popup > a`},
			buttonText: "Cấu hình theo IP",
			want:       []string{`li:has-text("Cấu hình theo IP") a`, `li.ip_popup > a`},
		},
		{
			name:       "quotes are escaped",
			selectors:  []string{`li:has-text("{button_text}")`},
			buttonText: `Say "hi"`,
			want:       []string{`li:has-text("Say \"hi\"")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.selectors, tt.ip, tt.buttonText)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand() = %v, want %v", got, tt.want)
			}
		})
	}
}
