package enums

import "strings"

// TagMatchMode controls how a multi-tag catalog search combines tags.
type TagMatchMode string

const (
	TagMatchAny TagMatchMode = "any"
	TagMatchAll TagMatchMode = "all"
)

var tagMatchModes = []TagMatchMode{TagMatchAny, TagMatchAll}

func (m TagMatchMode) String() string { return string(m) }

func (m TagMatchMode) IsValid() bool { return isKnown(tagMatchModes, m) }

// ParseTagMatchMode is case-insensitive. Empty input selects TagMatchAny.
func ParseTagMatchMode(value string) (TagMatchMode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return TagMatchAny, nil
	}
	return parseKnown(tagMatchModes, "tag match mode", value)
}
