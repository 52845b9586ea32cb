package sendblue

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NewtTheWolf/sendblue/phonenumber"
)

var (
	alice = phonenumber.MustParse("+14155552671")
	bob   = phonenumber.MustParse("+12125551234")
)

func TestMessageBuilder_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		builder   *MessageBuilder
		wantField string
	}{
		{name: "nothing set", builder: NewMessageBuilder(), wantField: "number"},
		{name: "content only", builder: NewMessageBuilder().Content("hi"), wantField: "number"},
		{name: "recipient only", builder: NewMessageBuilder().To(alice), wantField: "content"},
		{name: "blank content", builder: NewMessageBuilder().To(alice).Content("   "), wantField: "content"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := tc.builder.Build()
			if err == nil {
				t.Fatalf("expected validation error, got %+v", msg)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantField) {
				t.Fatalf("error %q does not name field %q", err, tc.wantField)
			}
		})
	}
}

func TestMessageBuilder_Build(t *testing.T) {
	media, err := ParseMediaURL("https://picsum.photos/200/300.jpg")
	if err != nil {
		t.Fatalf("ParseMediaURL: %v", err)
	}
	callback, err := ParseCallbackURL("https://example.com/callback")
	if err != nil {
		t.Fatalf("ParseCallbackURL: %v", err)
	}

	msg, err := NewMessageBuilder().
		To(alice).
		Content("Hello world!").
		MediaURL(media).
		StatusCallback(callback).
		SendStyle(SendStyleInvisible).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"number":"+14155552671","content":"Hello world!","media_url":"https://picsum.photos/200/300.jpg","status_callback":"https://example.com/callback","send_style":"invisible"}`
	if string(data) != want {
		t.Fatalf("json = %s\nwant   %s", data, want)
	}
}

func TestMessageBuilder_OmitsOptionalFields(t *testing.T) {
	msg, err := NewMessageBuilder().To(alice).Content("hi").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, _ := json.Marshal(msg)
	if string(data) != `{"number":"+14155552671","content":"hi"}` {
		t.Fatalf("json = %s", data)
	}
}

func TestMessageBuilder_RejectsUnknownStyle(t *testing.T) {
	_, err := NewMessageBuilder().To(alice).Content("hi").SendStyle("wobble").Build()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMessageBuilder_BuildDoesNotAlias(t *testing.T) {
	b := NewMessageBuilder().To(alice).Content("first")
	first, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b.Content("second")
	if first.Content != "first" {
		t.Fatalf("built message changed after setter call: %q", first.Content)
	}
}

func TestGroupMessageBuilder(t *testing.T) {
	t.Run("missing recipients", func(t *testing.T) {
		_, err := NewGroupMessageBuilder().Content("hi").Build()
		if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), "numbers or group_id") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := NewGroupMessageBuilder().Numbers(alice, bob).Build()
		if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), "content") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero number", func(t *testing.T) {
		_, err := NewGroupMessageBuilder().Numbers(alice, phonenumber.PhoneNumber{}).Content("hi").Build()
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("group id only", func(t *testing.T) {
		msg, err := NewGroupMessageBuilder().GroupID(" 66e3b90d ").Content("hi").Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		data, _ := json.Marshal(msg)
		if string(data) != `{"group_id":"66e3b90d","content":"hi"}` {
			t.Fatalf("json = %s", data)
		}
	})

	t.Run("dedupes numbers", func(t *testing.T) {
		b := NewGroupMessageBuilder().Numbers(alice, bob, alice).Content("hi")
		msg, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if len(msg.Numbers) != 2 || !msg.Numbers[0].Equal(alice) || !msg.Numbers[1].Equal(bob) {
			t.Fatalf("numbers = %v", msg.Numbers)
		}

		b.Numbers(phonenumber.MustParse("+442079460958"))
		if len(msg.Numbers) != 2 {
			t.Fatalf("built message changed after setter call: %v", msg.Numbers)
		}
	})
}

func TestGetMessagesParamsBuilder_Empty(t *testing.T) {
	params, err := NewGetMessagesParamsBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := params.Values().Encode(); got != "" {
		t.Fatalf("expected no filters, got %q", got)
	}
}

func TestGetMessagesParamsBuilder_Values(t *testing.T) {
	from := time.Date(2023, 9, 21, 20, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	params, err := NewGetMessagesParamsBuilder().
		CID("contact-1").
		Number(alice).
		Limit(50).
		Offset(100).
		FromDate(from).
		ToDate(to).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	v := params.Values()
	checks := map[string]string{
		"cid":       "contact-1",
		"number":    "+14155552671",
		"limit":     "50",
		"offset":    "100",
		"from_date": "2023-09-21T20:00:00Z",
		"to_date":   "2023-09-22T20:00:00Z",
	}
	for key, want := range checks {
		if got := v.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestGetMessagesParamsBuilder_Bounds(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		builder *GetMessagesParamsBuilder
	}{
		{name: "zero limit", builder: NewGetMessagesParamsBuilder().Limit(0)},
		{name: "negative limit", builder: NewGetMessagesParamsBuilder().Limit(-1)},
		{name: "limit too large", builder: NewGetMessagesParamsBuilder().Limit(MaxMessagesLimit + 1)},
		{name: "negative offset", builder: NewGetMessagesParamsBuilder().Offset(-5)},
		{name: "inverted range", builder: NewGetMessagesParamsBuilder().FromDate(now).ToDate(now.Add(-time.Hour))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.builder.Build(); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := NewGetMessagesParamsBuilder().Limit(MaxMessagesLimit).Build(); err != nil {
		t.Fatalf("max limit should be accepted: %v", err)
	}
}

func TestEvaluateServiceBuilder(t *testing.T) {
	if _, err := NewEvaluateServiceBuilder().Build(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error without number, got %v", err)
	}

	req, err := NewEvaluateServiceBuilder().Number(alice).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !req.Number.Equal(alice) {
		t.Fatalf("number = %q", req.Number)
	}
}

func TestParseURLs(t *testing.T) {
	valid := []string{"https://example.com/a.png", "http://cdn.example.com/x"}
	for _, raw := range valid {
		if _, err := ParseMediaURL(raw); err != nil {
			t.Errorf("ParseMediaURL(%q): %v", raw, err)
		}
	}

	invalid := []string{"", "example.com/a.png", "ftp://example.com/a", "https://", "::"}
	for _, raw := range invalid {
		if _, err := ParseMediaURL(raw); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseMediaURL(%q): expected validation error, got %v", raw, err)
		}
		if _, err := ParseCallbackURL(raw); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseCallbackURL(%q): expected validation error, got %v", raw, err)
		}
	}
}

func TestParseVoiceNote(t *testing.T) {
	if _, err := ParseVoiceNote("https://example.com/note.caf"); err != nil {
		t.Fatalf("ParseVoiceNote: %v", err)
	}
	if _, err := ParseVoiceNote("https://example.com/note.mp3"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for non-caf, got %v", err)
	}
}

func TestParseSendStyle(t *testing.T) {
	s, err := ParseSendStyle(" Shooting_Star ")
	if err != nil {
		t.Fatalf("ParseSendStyle: %v", err)
	}
	if s != SendStyleShootingStar {
		t.Fatalf("style = %q", s)
	}
	if _, err := ParseSendStyle("disco"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
