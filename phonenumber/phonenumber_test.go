package phonenumber

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		region     string
		wantE164   string
		wantRegion string
	}{
		{name: "e164", raw: "+14155552671", wantE164: "+14155552671", wantRegion: "US"},
		{name: "national with region", raw: "(415) 555-2671", region: "US", wantE164: "+14155552671", wantRegion: "US"},
		{name: "lowercase region", raw: "415 555 2671", region: "us", wantE164: "+14155552671", wantRegion: "US"},
		{name: "uk national", raw: "020 7946 0958", region: "GB", wantE164: "+442079460958", wantRegion: "GB"},
		{name: "surrounding spaces", raw: "  +14155552671 ", wantE164: "+14155552671", wantRegion: "US"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse(tc.raw, tc.region)
			if err != nil {
				t.Fatalf("Parse(%q, %q) returned error: %v", tc.raw, tc.region, err)
			}
			if n.E164() != tc.wantE164 {
				t.Fatalf("E164 = %q, want %q", n.E164(), tc.wantE164)
			}
			if n.Region() != tc.wantRegion {
				t.Fatalf("Region = %q, want %q", n.Region(), tc.wantRegion)
			}

			// Canonical form must be stable when parsed again.
			again, err := Parse(n.String(), "")
			if err != nil {
				t.Fatalf("re-parse of %q failed: %v", n, err)
			}
			if !again.Equal(n) {
				t.Fatalf("re-parse = %q, want %q", again, n)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		reason Reason
	}{
		{name: "empty", raw: "", reason: ReasonEmpty},
		{name: "blank", raw: "   ", region: "US", reason: ReasonEmpty},
		{name: "unknown region", raw: "4155552671", region: "XX", reason: ReasonUnknownRegion},
		{name: "letters", raw: "abc", region: "US", reason: ReasonInvalidFormat},
		{name: "too short", raw: "+1 23"},
		{name: "no region no plus", raw: "4155552671"},
		{name: "extension", raw: "+1 (415) 555-2671 ext. 5", reason: ReasonInvalidFormat},
		{name: "national extension", raw: "415 555 2671 x12", region: "US", reason: ReasonInvalidFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse(tc.raw, tc.region)
			if err == nil {
				t.Fatalf("expected error for %q, got %q", tc.raw, n)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if tc.reason != "" && pe.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", pe.Reason, tc.reason)
			}
			if !n.IsZero() {
				t.Fatalf("expected zero number on failure, got %q", n)
			}
		})
	}
}

type stubParser struct {
	calls int
}

func (s *stubParser) Parse(raw, region string) (string, string, error) {
	s.calls++
	return "+15550000000", "", nil
}

func TestParseWith_CustomParser(t *testing.T) {
	p := &stubParser{}

	n, err := ParseWith(p, "anything", "")
	if err != nil {
		t.Fatalf("ParseWith returned error: %v", err)
	}
	if n.E164() != "+15550000000" {
		t.Fatalf("E164 = %q", n.E164())
	}
	if p.calls != 1 {
		t.Fatalf("parser calls = %d, want 1", p.calls)
	}

	// Empty input never reaches the parser.
	if _, err := ParseWith(p, "", ""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if p.calls != 1 {
		t.Fatalf("parser was called for empty input")
	}
}

func TestPhoneNumber_JSON(t *testing.T) {
	n := MustParse("+14155552671")

	data, err := json.Marshal(struct {
		Number PhoneNumber `json:"number"`
	}{n})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"number":"+14155552671"}` {
		t.Fatalf("marshal = %s", data)
	}

	var decoded struct {
		Number PhoneNumber `json:"number"`
		Empty  PhoneNumber `json:"empty"`
		Null   PhoneNumber `json:"null"`
	}
	if err := json.Unmarshal([]byte(`{"number":"+14155552671","empty":"","null":null}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Number.Equal(n) {
		t.Fatalf("decoded number = %q", decoded.Number)
	}
	if !decoded.Empty.IsZero() || !decoded.Null.IsZero() {
		t.Fatalf("expected empty and null to decode as zero")
	}

	if err := json.Unmarshal([]byte(`{"number":12}`), &decoded); err == nil {
		t.Fatalf("expected error for non-string number")
	}
	if err := json.Unmarshal([]byte(`{"number":"nope"}`), &decoded); err == nil {
		t.Fatalf("expected error for garbage number")
	}
}

func TestPhoneNumber_ZeroMarshalsNull(t *testing.T) {
	data, err := json.Marshal(PhoneNumber{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("marshal zero = %s, want null", data)
	}
}

func TestParseList(t *testing.T) {
	list, err := ParseList("+14155552671, ,+442079460958", "")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[1].E164() != "+442079460958" {
		t.Fatalf("second = %q", list[1])
	}

	if _, err := ParseList("+14155552671,bad", "US"); err == nil {
		t.Fatalf("expected error for bad entry")
	}
}
