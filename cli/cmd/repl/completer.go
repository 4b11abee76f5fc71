package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"clear", "help", "load", "quit", "reset", "set", "tags", "templates", "vars",
}

// isWordBoundary reports whether r delimits a completion word. '$' and '-'
// are not boundaries because both belong to variable and tag names.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '\n', '(', ')', '"', '=':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted chain leading up to the word starting at
// wordStart. For "(p $user.na" and the word "na" it returns "$user".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// opensForm reports whether the word starting at wordStart is the tag name
// of a form.
func opensForm(input string, wordStart int) bool {
	r, _ := utf8.DecodeLastRuneInString(input[:wordStart])

	return r == '('
}

// candidates returns the completions valid at wordStart: variable names
// after '$', map keys after a dotted variable, and tag names after '('.
func (s *Session) candidates(input, word string, wordStart int) []string {
	if parent := parentPath(input, wordStart); parent != "" {
		name, ok := strings.CutPrefix(parent, "$")
		if !ok {
			return nil
		}

		return s.Members(name)
	}

	if strings.HasPrefix(word, "$") {
		names := s.Variables()
		for i, name := range names {
			names[i] = "$" + name
		}

		return names
	}

	if opensForm(input, wordStart) {
		return s.Tags()
	}

	return nil
}

// computeMatches returns the fuzzy matches for the word at the cursor,
// ranked best-first, with the word's boundaries. An empty word only lists
// candidates after a dot so the hint line stays visible otherwise.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		if wordStart > 0 || word == "" {
			return nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		candidates = m.session.candidates(input, word, wordStart)
	}

	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if parentPath(input, wordStart) == "" {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the completion line, ellipsized to width. The
// selected candidate is highlighted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		if i > 0 && used+entryWidth+ellipsisWidth > width && !(last && used+entryWidth <= width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders match with its matched characters highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
