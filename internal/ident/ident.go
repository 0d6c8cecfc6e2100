// Package ident generates, parses and formats snippet and attachment
// identifiers.
package ident

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"snip/internal/apperror"
)

const (
	canonicalLength = 36
	segmentSep      = "-"
)

// ID is a 128-bit random identifier rendered as 8-4-4-4-12 hex groups.
type ID uuid.UUID

// Nil is the zero identifier.
var Nil ID

// New returns a fresh random identifier.
func New() ID {
	return ID(uuid.New())
}

// Parse accepts only the canonical lower-case hyphenated form, so that
// Parse(s).String() == s for every accepted s.
func Parse(s string) (ID, error) {
	if len(s) != canonicalLength || strings.ToLower(s) != s {
		return Nil, apperror.MalformedIdentifier(s, nil)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, apperror.MalformedIdentifier(s, err)
	}
	return ID(u), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("ident: %v", err))
	}
	return id
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Segments splits the canonical form on its group separator.
func (id ID) Segments() []string {
	return strings.Split(id.String(), segmentSep)
}

// Short returns the first segment, used for compact listings.
func (id ID) Short() string {
	return id.Segments()[0]
}

// IsNil reports whether id is the zero identifier.
func (id ID) IsNil() bool {
	return id == Nil
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
