package model

import (
	"reflect"
	"testing"
)

func TestParseRoles(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"USER", []string{"USER"}},
		{"USER,ADMIN", []string{"USER", "ADMIN"}},
		{"admin, user", []string{"ADMIN", "USER"}},
		{"USER,USER,ADMIN", []string{"USER", "ADMIN"}},
		{"", []string{"USER"}},          // blank column still grants baseline access
		{"WIZARD", []string{"USER"}},    // unknown tags dropped
		{"USER,WIZARD", []string{"USER"}},
	}
	for _, tc := range cases {
		if got := ParseRoles(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseRoles(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestJoinRoles(t *testing.T) {
	if got := JoinRoles([]string{"admin", "USER", "USER"}); got != "ADMIN,USER" {
		t.Errorf("JoinRoles = %q, want %q", got, "ADMIN,USER")
	}
	if got := JoinRoles(nil); got != "USER" {
		t.Errorf("JoinRoles(nil) = %q, want %q", got, "USER")
	}
}

func TestValidScore(t *testing.T) {
	for score, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := ValidScore(score); got != want {
			t.Errorf("ValidScore(%d) = %v, want %v", score, got, want)
		}
	}
}
