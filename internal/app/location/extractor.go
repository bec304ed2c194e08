// Package location guesses a place name from free-form chat text.
//
// The guess is heuristic: a gazetteer substring scan first, then a positional
// rule that takes the word(s) following a trigger such as "in" or "for".
// Substring matches inside longer words and overlapping city names are
// accepted misfires.
package location

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var triggerWords = map[string]bool{
	"in":      true,
	"at":      true,
	"for":     true,
	"weather": true,
	"from":    true,
	"of":      true,
}

// Extract returns the best guess for the place mentioned in text.
func Extract(text string) (string, bool) {
	lower := strings.ToLower(text)

	if city, ok := matchGazetteer(lower); ok {
		return titleCase(city), true
	}

	words := strings.Split(lower, " ")
	for i, w := range words {
		if !triggerWords[w] || i+1 >= len(words) {
			continue
		}

		place := trimPunct(words[i+1])
		if i+2 < len(words) && continuesPlace(words[i+2]) {
			place += " " + trimPunct(words[i+2])
		}
		place = strings.TrimSpace(place)
		if place == "" {
			continue
		}
		return titleCase(place), true
	}

	return "", false
}

// matchGazetteer returns the longest known city contained in text; ties go
// to the earlier gazetteer entry.
func matchGazetteer(text string) (string, bool) {
	best := ""
	for _, city := range gazetteer {
		if len(city) > len(best) && strings.Contains(text, city) {
			best = city
		}
	}
	return best, best != ""
}

func continuesPlace(w string) bool {
	switch w {
	case "?", ".", "!":
		return false
	}
	return utf8.RuneCountInString(w) > 2
}

func trimPunct(w string) string {
	return strings.TrimRight(w, "?.!,")
}

func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
