// Package phonenumber provides a validated, immutable phone number value
// normalised to E.164. Parsing is delegated to a Parser so the underlying
// library can be replaced without touching the request and response models.
package phonenumber

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Reason classifies why a raw phone number was rejected.
type Reason string

const (
	ReasonEmpty         Reason = "empty input"
	ReasonInvalidFormat Reason = "invalid format"
	ReasonUnknownRegion Reason = "unrecognized region"
)

// ParseError is returned when a raw string cannot be turned into a PhoneNumber.
type ParseError struct {
	Input  string
	Region string
	Reason Reason
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("phonenumber: %s", e.Reason)
	if e.Input != "" {
		msg += fmt.Sprintf(" %q", e.Input)
	}
	if e.Region != "" {
		msg += fmt.Sprintf(" (region %s)", e.Region)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser turns a raw string into its canonical E.164 form and the region the
// number belongs to. Implementations must return a *ParseError on failure.
type Parser interface {
	Parse(raw, region string) (e164 string, regionCode string, err error)
}

// PhoneNumber is a canonical E.164 phone number. The zero value represents an
// absent number and is never produced by a successful parse.
type PhoneNumber struct {
	e164   string
	region string
}

var (
	defaultParser Parser = NewLibPhoneNumber()
	lenientParser Parser = &LibPhoneNumber{skipPossibleCheck: true}
)

// Parse validates raw using the default libphonenumber-backed parser.
// region is an optional ISO 3166-1 alpha-2 code used when raw has no leading '+'.
// Input carrying an extension is rejected as ReasonInvalidFormat.
func Parse(raw, region string) (PhoneNumber, error) {
	return ParseWith(defaultParser, raw, region)
}

// ParseWith validates raw using the given parser.
func ParseWith(p Parser, raw, region string) (PhoneNumber, error) {
	raw = strings.TrimSpace(raw)
	region = strings.ToUpper(strings.TrimSpace(region))
	if raw == "" {
		return PhoneNumber{}, &ParseError{Region: region, Reason: ReasonEmpty}
	}

	e164, regionCode, err := p.Parse(raw, region)
	if err != nil {
		return PhoneNumber{}, err
	}
	if e164 == "" {
		return PhoneNumber{}, &ParseError{Input: raw, Region: region, Reason: ReasonInvalidFormat}
	}
	return PhoneNumber{e164: e164, region: regionCode}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(raw string) PhoneNumber {
	n, err := Parse(raw, "")
	if err != nil {
		panic(err)
	}
	return n
}

// E164 returns the canonical form, e.g. "+14155552671".
func (n PhoneNumber) E164() string { return n.e164 }

// Region returns the ISO region code of the number, or "" when unknown
// (non-geographic numbers, custom parsers).
func (n PhoneNumber) Region() string { return n.region }

// IsZero reports whether n is the absent number.
func (n PhoneNumber) IsZero() bool { return n.e164 == "" }

func (n PhoneNumber) String() string { return n.e164 }

// Equal reports whether both numbers have the same canonical form.
func (n PhoneNumber) Equal(other PhoneNumber) bool { return n.e164 == other.e164 }

// MarshalJSON encodes the number as its E.164 string, or null when absent.
func (n PhoneNumber) MarshalJSON() ([]byte, error) {
	if n.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(n.e164)
}

// UnmarshalJSON accepts an E.164 string, "" or null. Numbers coming back from
// the API are only checked for syntax, not for possibility.
func (n *PhoneNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = PhoneNumber{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("phonenumber: expected string: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		*n = PhoneNumber{}
		return nil
	}

	parsed, err := ParseWith(lenientParser, raw, "")
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler so numbers can be used in
// query strings and map keys.
func (n PhoneNumber) MarshalText() ([]byte, error) {
	return []byte(n.e164), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the strict parser.
func (n *PhoneNumber) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*n = PhoneNumber{}
		return nil
	}
	parsed, err := Parse(string(text), "")
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// ParseList parses a comma separated list of numbers, skipping blanks.
func ParseList(raw, region string) ([]PhoneNumber, error) {
	var out []PhoneNumber
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := Parse(part, region)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
