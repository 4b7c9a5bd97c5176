package encoding

import (
	"errors"
	"strings"
	"testing"

	"github.com/pthm/propview/lib/cascade"
)

// cardState is a typical value carried between requests.
type cardState struct {
	Title string      `msgpack:"title"`
	Count int64       `msgpack:"count"`
	Style cascade.Map `msgpack:"style"`
}

func TestNewEncoder(t *testing.T) {
	// Should work with any key length (derives 32-byte key)
	if _, err := NewEncoder([]byte("short")); err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}

	if _, err := NewEncoder([]byte("this-is-a-32-byte-key-for-aes!!!")); err != nil {
		t.Fatalf("NewEncoder with 32-byte key failed: %v", err)
	}

	if _, err := NewEncoder([]byte("this-key-is-quite-a-bit-longer-than-32-bytes")); err != nil {
		t.Fatalf("NewEncoder with long key failed: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}

	in := cardState{
		Title: "Sunset",
		Count: 42,
		Style: cascade.Structured(cascade.Decl("color", "red"), cascade.Unset("margin")),
	}

	for _, sensitive := range []bool{false, true} {
		token, err := enc.Encode(in, sensitive)
		if err != nil {
			t.Fatalf("Encode(sensitive=%v) error = %v", sensitive, err)
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("Encode(sensitive=%v) = %q, want URL-safe token", sensitive, token)
		}

		var out cardState
		if err := enc.Decode(token, sensitive, &out); err != nil {
			t.Fatalf("Decode(sensitive=%v) error = %v", sensitive, err)
		}
		if out.Title != in.Title || out.Count != in.Count {
			t.Errorf("Decode(sensitive=%v) = %+v, want %+v", sensitive, out, in)
		}
		if !out.Style.Equal(in.Style) {
			t.Errorf("Decode(sensitive=%v) style = %v, want %v", sensitive, out.Style, in.Style)
		}
		if v, present := out.Style.Get("margin"); !present || v != nil {
			t.Errorf("explicit unset entry lost: present=%v value=%v", present, v)
		}
	}
}

func TestSignedTokenIsReadable(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))
	signed, _ := enc.Encode("visible", false)
	if !strings.Contains(signed, ".") {
		t.Errorf("signed token %q should be payload.signature", signed)
	}

	encrypted, _ := enc.Encode("visible", true)
	if strings.Contains(encrypted, ".") {
		t.Errorf("encrypted token %q should be a single segment", encrypted)
	}

	other, _ := enc.Encode("visible", true)
	if encrypted == other {
		t.Error("encrypted tokens should use a fresh nonce")
	}
}

func TestDecodeErrors(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))
	other, _ := NewEncoder([]byte("other-key"))

	signed, _ := enc.Encode(map[string]string{"a": "b"}, false)
	encrypted, _ := enc.Encode(map[string]string{"a": "b"}, true)

	payload, sig, _ := strings.Cut(signed, ".")
	tampered := payload + "x." + sig

	tests := []struct {
		name      string
		enc       *Encoder
		token     string
		sensitive bool
		want      error
	}{
		{"missing signature", enc, payload, false, ErrInvalidFormat},
		{"bad base64", enc, "!!!.???", false, ErrInvalidFormat},
		{"tampered payload", enc, tampered, false, ErrSignatureInvalid},
		{"wrong key signed", other, signed, false, ErrSignatureInvalid},
		{"short ciphertext", enc, "AAAA", true, ErrInvalidFormat},
		{"wrong key encrypted", other, encrypted, true, ErrDecryptFailed},
		{"signed as encrypted", enc, signed, true, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]string
			err := tt.enc.Decode(tt.token, tt.sensitive, &out)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}
