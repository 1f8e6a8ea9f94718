// Package extract pulls producer names out of free-text song descriptions.
//
// Extraction is a single left-to-right scan driven by a small state machine
// over a fixed attribution vocabulary ("Produced by", "Production by",
// "Producer", "Producers"). Structured credits from the metadata provider are
// used only when the text yields nothing.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Source identifies where an extraction result came from.
type Source int

const (
	SourceNone       Source = iota // nothing found
	SourceText                     // scanned from the description
	SourceStructured               // provider's structured credits
)

func (s Source) String() string {
	switch s {
	case SourceText:
		return "text"
	case SourceStructured:
		return "structured"
	default:
		return "none"
	}
}

// Result is the ordered, deduplicated list of producer names for one song.
type Result struct {
	Names  []string
	Source Source
}

// Found reports whether any producer was found.
func (r Result) Found() bool {
	return len(r.Names) > 0
}

// Extract scans description for producer attributions. When the scan yields
// zero names and structured is non-empty, structured is returned verbatim.
//
// A single match in the text, even a noisy one, suppresses the structured
// credits.
func Extract(description string, structured []string) Result {
	if names := FromText(description); len(names) > 0 {
		return Result{Names: names, Source: SourceText}
	}
	if len(structured) > 0 {
		return Result{Names: append([]string(nil), structured...), Source: SourceStructured}
	}
	return Result{Source: SourceNone}
}

// attribution phrases, longest first.
var phrases = []string{
	"produced by",
	"production by",
	"producers",
	"producer",
}

type state int

const (
	seekPhrase state = iota // looking for an attribution phrase
	leadIn                  // skipping blanks (and one ':' or '-') before a name
	inName                  // reading a name span
)

// FromText returns producer names attributed in text, in first-seen order.
//
// A name span ends at a comma, a period, a newline, the word "and" between
// blanks, or the end of text. "and" continues the same attribution with
// another span; the other terminators close it. Spans are split on '&'.
// Byte-identical names after trimming are reported once.
func FromText(text string) []string {
	var (
		names   []string
		seen    = make(map[string]struct{})
		st      = seekPhrase
		start   int
		sepUsed bool
	)

	emit := func(span string) {
		for _, piece := range strings.Split(span, "&") {
			name := strings.TrimSpace(piece)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	for i := 0; i < len(text); {
		switch st {
		case seekPhrase:
			if n := phraseAt(text, i); n > 0 {
				i += n
				st, sepUsed = leadIn, false
				continue
			}
			i++

		case leadIn:
			c := text[i]
			switch {
			case isSpace(c):
				i++
			case !sepUsed && (c == ':' || c == '-'):
				sepUsed = true
				i++
			default:
				start = i
				st = inName
			}

		case inName:
			c := text[i]
			if c == ',' || c == '.' || c == '\n' {
				emit(text[start:i])
				i++
				st = seekPhrase
				continue
			}
			if n := andAt(text, i); n > 0 {
				emit(text[start:i])
				i += n
				st, sepUsed = leadIn, true
				continue
			}
			i++
		}
	}

	if st == inName {
		emit(text[start:])
	}
	return names
}

// phraseAt returns the length of the attribution phrase starting at i, or 0.
// Phrases must sit on word boundaries on both sides.
func phraseAt(text string, i int) int {
	if i > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:i]); isWordRune(r) {
			return 0
		}
	}
	for _, p := range phrases {
		end := i + len(p)
		if end > len(text) || !strings.EqualFold(text[i:end], p) {
			continue
		}
		if end < len(text) {
			if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
				continue
			}
		}
		return len(p)
	}
	return 0
}

// andAt returns the length of a blank-delimited "and" starting with the blank
// at i (including the trailing blank), or 0.
func andAt(text string, i int) int {
	const n = len(" and ")
	if i+n > len(text) {
		return 0
	}
	if !isSpace(text[i]) || !isSpace(text[i+n-1]) {
		return 0
	}
	if !strings.EqualFold(text[i+1:i+n-1], "and") {
		return 0
	}
	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// isWordRune reports whether r continues a word: letters, digits and '_'.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
