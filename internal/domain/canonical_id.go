package domain

import "strings"

// CanonicalID is the stable (source, source-local key) pair identifying one
// food record. It replaces the loose "SOURCE:KEY" string convention: the
// string form is parsed exactly once at the API boundary.
type CanonicalID struct {
	Source Source
	Key    string
}

// String renders the wire form "source:key"
func (id CanonicalID) String() string {
	return string(id.Source) + ":" + id.Key
}

// ParseCanonicalID parses a canonical id string. Accepted forms:
//
//	"generic:COFID-123"  explicit source prefix
//	"branded:5000159407236"
//	"5000159407236"      bare barcode, defaults to the branded source
//
// A missing key, unknown source, or empty input is ErrInvalidCanonicalID.
func ParseCanonicalID(raw string) (CanonicalID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CanonicalID{}, ErrInvalidCanonicalID
	}

	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return CanonicalID{Source: SourceBranded, Key: raw}, nil
	}

	source := Source(strings.ToLower(raw[:idx]))
	key := raw[idx+1:]
	if key == "" {
		return CanonicalID{}, ErrInvalidCanonicalID
	}

	switch source {
	case SourceGeneric, SourceBranded:
		return CanonicalID{Source: source, Key: key}, nil
	default:
		return CanonicalID{}, ErrInvalidCanonicalID
	}
}
