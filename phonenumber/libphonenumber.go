package phonenumber

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

// LibPhoneNumber is the default Parser, backed by github.com/nyaruka/phonenumbers.
type LibPhoneNumber struct {
	// skipPossibleCheck accepts any syntactically parseable number.
	skipPossibleCheck bool
}

// NewLibPhoneNumber returns a parser that rejects numbers whose length is not
// possible for their country.
func NewLibPhoneNumber() *LibPhoneNumber {
	return &LibPhoneNumber{}
}

// Parse implements Parser.
func (p *LibPhoneNumber) Parse(raw, region string) (string, string, error) {
	if region != "" && phonenumbers.GetCountryCodeForRegion(region) == 0 {
		return "", "", &ParseError{Input: raw, Region: region, Reason: ReasonUnknownRegion}
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		reason := ReasonInvalidFormat
		if errors.Is(err, phonenumbers.ErrInvalidCountryCode) {
			reason = ReasonUnknownRegion
		}
		return "", "", &ParseError{Input: raw, Region: region, Reason: reason, Err: err}
	}

	// E.164 has no extension field.
	if num.GetExtension() != "" {
		return "", "", &ParseError{Input: raw, Region: region, Reason: ReasonInvalidFormat}
	}

	if !p.skipPossibleCheck && !phonenumbers.IsPossibleNumber(num) {
		return "", "", &ParseError{Input: raw, Region: region, Reason: ReasonInvalidFormat}
	}

	regionCode := phonenumbers.GetRegionCodeForNumber(num)
	if regionCode == "ZZ" || regionCode == "001" {
		regionCode = ""
	}

	return phonenumbers.Format(num, phonenumbers.E164), regionCode, nil
}

var _ Parser = (*LibPhoneNumber)(nil)
