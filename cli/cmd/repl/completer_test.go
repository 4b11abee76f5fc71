package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/sxhtml/render"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"tag after paren", "(di", 3, "di", 1, 3},
		{"variable", "(p $us", 6, "$us", 3, 6},
		{"member after dot", "(p $user.na", 11, "na", 9, 11},
		{"inside string", `(p "hi $na`, 10, "$na", 7, 10},
		{"hyphenated tag", "(is-se", 6, "is-se", 1, 6},
		{"mid word", "(p $name)", 5, "$name", 3, 8},
		{"empty after space", "(p ", 3, "", 3, 3},
		{"empty after dot", "(p $user.", 9, "", 9, 9},
		{"cursor past end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top level", "(p $us", 3, ""},
		{"one level", "(p $user.", 9, "$user"},
		{"two levels", "(p $site.owner.na", 15, "$site.owner"},
		{"inside string", `(p "hi $user.`, 13, "$user"},
		{"after paren", "($a.", 4, "$a"},
		{"no dot", "(p ", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestSession_Candidates(t *testing.T) {
	s := newSession(t, render.NewContext().
		Insert("title", render.Scalar("home")).
		Insert("user", render.Map(
			render.Entry{Key: "name", Value: render.Scalar("ann")},
			render.Entry{Key: "age", Value: render.Scalar("30")},
		)))

	tests := []struct {
		name     string
		input    string
		contains []string
		empty    bool
	}{
		{name: "variables", input: "(p $t", contains: []string{"$title", "$user"}},
		{name: "members", input: "(p $user.", contains: []string{"name", "age"}},
		{name: "tags", input: "(d", contains: []string{"div", "if", "for", "is-set", "include"}},
		{name: "plain word", input: "(p hel", empty: true},
		{name: "member of scalar", input: "(p $title.", empty: true},
		{name: "unbound parent", input: "(p $nope.", empty: true},
		{name: "dotted word without variable", input: "(p a.", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, _ := wordBounds(tt.input, len(tt.input))
			got := s.candidates(tt.input, word, start)

			if tt.empty {
				if len(got) != 0 {
					t.Errorf("candidates(%q) = %v, want none", tt.input, got)
				}

				return
			}

			for _, want := range tt.contains {
				if !slices.Contains(got, want) {
					t.Errorf("candidates(%q) = %v, missing %q", tt.input, got, want)
				}
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	s := newSession(t, nil)

	m := newModel(t.Context(), s, NewHistory(""), testLogger())
	m.input.SetValue("(di")
	m.input.SetCursor(3)
	refreshMatches(&m, false)

	if len(m.matches) == 0 || m.matches[0].Str != "div" {
		t.Fatalf("matches = %v, want div first", m.matches)
	}

	if bar := renderCandidateBar(m.matches, -1, false, 80); bar == "" {
		t.Error("renderCandidateBar() is empty")
	}

	if bar := renderCandidateBar(m.matches, -1, false, 0); bar != "" {
		t.Errorf("renderCandidateBar(width 0) = %q, want empty", bar)
	}
}
