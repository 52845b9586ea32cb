package sendblue

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// MediaURL is a validated, publicly reachable attachment URL.
type MediaURL struct {
	u *url.URL
}

// CallbackURL is a validated URL Sendblue posts status updates to.
type CallbackURL struct {
	u *url.URL
}

// ParseMediaURL validates raw as an absolute http(s) URL.
func ParseMediaURL(raw string) (MediaURL, error) {
	u, err := parseHTTPURL("media url", raw)
	if err != nil {
		return MediaURL{}, err
	}
	return MediaURL{u: u}, nil
}

// ParseVoiceNote validates raw as a media URL pointing at a .caf audio file,
// which iMessage renders as a voice note.
func ParseVoiceNote(raw string) (MediaURL, error) {
	u, err := parseHTTPURL("voice note", raw)
	if err != nil {
		return MediaURL{}, err
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".caf") {
		return MediaURL{}, validationError("voice note", "url path must end with .caf")
	}
	return MediaURL{u: u}, nil
}

// ParseCallbackURL validates raw as an absolute http(s) URL.
func ParseCallbackURL(raw string) (CallbackURL, error) {
	u, err := parseHTTPURL("callback url", raw)
	if err != nil {
		return CallbackURL{}, err
	}
	return CallbackURL{u: u}, nil
}

func parseHTTPURL(op, raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, missingField(op, "url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("invalid url format: %w", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, validationError(op, "url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, validationError(op, "url must have a host")
	}
	return u, nil
}

func (m MediaURL) IsZero() bool { return m.u == nil }

func (m MediaURL) String() string {
	if m.u == nil {
		return ""
	}
	return m.u.String()
}

func (m MediaURL) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *MediaURL) UnmarshalJSON(data []byte) error {
	u, err := unmarshalURL(data)
	if err != nil {
		return err
	}
	m.u = u
	return nil
}

func (c CallbackURL) IsZero() bool { return c.u == nil }

func (c CallbackURL) String() string {
	if c.u == nil {
		return ""
	}
	return c.u.String()
}

func (c CallbackURL) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *CallbackURL) UnmarshalJSON(data []byte) error {
	u, err := unmarshalURL(data)
	if err != nil {
		return err
	}
	c.u = u
	return nil
}

// unmarshalURL accepts null and "" as absent.
func unmarshalURL(data []byte) (*url.URL, error) {
	if string(data) == "null" {
		return nil, nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return url.Parse(raw)
}

// SendStyle is an iMessage expressive send effect.
type SendStyle string

const (
	SendStyleCelebration  SendStyle = "celebration"
	SendStyleShootingStar SendStyle = "shooting_star"
	SendStyleFireworks    SendStyle = "fireworks"
	SendStyleLasers       SendStyle = "lasers"
	SendStyleLove         SendStyle = "love"
	SendStyleConfetti     SendStyle = "confetti"
	SendStyleBalloons     SendStyle = "balloons"
	SendStyleSpotlight    SendStyle = "spotlight"
	SendStyleEcho         SendStyle = "echo"
	SendStyleInvisible    SendStyle = "invisible"
	SendStyleGentle       SendStyle = "gentle"
	SendStyleLoud         SendStyle = "loud"
	SendStyleSlam         SendStyle = "slam"
)

var sendStyles = map[SendStyle]struct{}{
	SendStyleCelebration:  {},
	SendStyleShootingStar: {},
	SendStyleFireworks:    {},
	SendStyleLasers:       {},
	SendStyleLove:         {},
	SendStyleConfetti:     {},
	SendStyleBalloons:     {},
	SendStyleSpotlight:    {},
	SendStyleEcho:         {},
	SendStyleInvisible:    {},
	SendStyleGentle:       {},
	SendStyleLoud:         {},
	SendStyleSlam:         {},
}

// Valid reports whether s is one of the styles Sendblue accepts.
func (s SendStyle) Valid() bool {
	_, ok := sendStyles[s]
	return ok
}

// ParseSendStyle normalises raw (case-insensitive) into a SendStyle.
func ParseSendStyle(raw string) (SendStyle, error) {
	s := SendStyle(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", validationError("send style", "unknown send style %q", raw)
	}
	return s, nil
}
