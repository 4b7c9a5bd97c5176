package plan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReservedPrefix is stripped from field names before they become attribute
// names, so a field can carry a name Go would otherwise reserve.
const ReservedPrefix = "X_"

// DefaultEventPrefix marks event fields (OnClick, OnKeyDown).
const DefaultEventPrefix = "On"

// Reserved field names.
const (
	ChildrenField  = "Children"
	ReferenceField = "NodeRef"
)

// AttrName returns the attribute name for a Go field name: the reserved
// prefix is stripped, the rest lower-cased and underscores become hyphens.
//
//	ID         -> id
//	TabIndex   -> tabindex
//	Aria_Label -> aria-label
//	X_Type     -> type
func AttrName(field string) string {
	name := strings.TrimPrefix(field, ReservedPrefix)
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// EventName returns the event bound by an event field and whether field is
// an event field at all. The prefix must be followed by an upper-case
// letter so Online or Once stay ordinary fields.
func EventName(field, prefix string) (string, bool) {
	if prefix == "" {
		prefix = DefaultEventPrefix
	}
	rest, ok := strings.CutPrefix(field, prefix)
	if !ok || rest == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return strings.ToLower(rest), true
}

// validName reports whether s can be used as a tag, attribute or event name.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), unicode.IsControl(r):
			return false
		case strings.ContainsRune("\"'<>/=`", r):
			return false
		}
	}
	return true
}

// ValidTag reports whether s looks like an element tag: a letter followed by
// letters, digits or hyphens.
func ValidTag(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return false
		}
	}
	return true
}
