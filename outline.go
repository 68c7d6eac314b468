package siteport

import (
	"strconv"
	"strings"
	"unicode"
)

// Heading is an ATX heading of a converted document.
type Heading struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// Outline lists the ATX headings of markdown in document order. Lines inside
// fenced code blocks are ignored. Anchors are lowercase and hyphenated, with
// numeric suffixes on repeats so each one is unique within the document.
func Outline(markdown string) []Heading {
	var headings []Heading
	seen := make(map[string]int)
	fence := ""

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" {
			continue
		}

		level, text, ok := parseHeading(trimmed)
		if !ok {
			continue
		}

		anchor := headingAnchor(text)
		if n, dup := seen[anchor]; dup {
			seen[anchor] = n + 1
			anchor += "-" + strconv.Itoa(n)
		} else {
			seen[anchor] = 1
		}
		headings = append(headings, Heading{Level: level, Text: text, Anchor: anchor})
	}
	return headings
}

func fenceMarker(line string) string {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, m) {
			return m
		}
	}
	return ""
}

func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	rest := line[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "#"))
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}

func headingAnchor(text string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingSep = true
		}
	}
	return b.String()
}
