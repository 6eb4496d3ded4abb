package attachment_test

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/PabloGalante/helper-kust/internal/attachment"
	"github.com/PabloGalante/helper-kust/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	mediaTypes := []string{"image/png", "image/jpeg", "image/webp", "image/svg+xml", "application/octet-stream"}

	for i := 0; i < 200; i++ {
		raw := make([]byte, rng.Intn(512))
		rng.Read(raw)
		mt := mediaTypes[i%len(mediaTypes)]

		encoded, err := attachment.Encode(raw, mt)
		if err != nil {
			t.Fatalf("Encode(%d bytes, %q) failed: %v", len(raw), mt, err)
		}

		gotType, gotRaw, err := attachment.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", encoded, err)
		}
		if gotType != mt {
			t.Errorf("media type: expected %q, got %q", mt, gotType)
		}
		if !bytes.Equal(gotRaw, raw) {
			t.Errorf("payload mismatch for %d bytes of %q", len(raw), mt)
		}
	}
}

func TestEncodeRejectsInvalidMediaType(t *testing.T) {
	for _, mt := range []string{"", "image", "image/", "image/png;x=1", "image/p,ng", "/png"} {
		if _, err := attachment.Encode([]byte("abc"), mt); !errors.Is(err, domain.ErrMalformedAttachment) {
			t.Errorf("Encode with %q: expected ErrMalformedAttachment, got %v", mt, err)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"no scheme":          "image/png;base64,QUJD",
		"no comma":           "data:image/png;base64QUJD",
		"not base64":         "data:image/png,QUJD",
		"comma in type":      "data:image/p,ng;base64,QUJD",
		"second comma":       "data:image/png;base64,QUJD,RUZH",
		"bad padding":        "data:image/png;base64,QUJ",
		"invalid characters": "data:image/png;base64,QU*D",
		"trailing newline":   "data:image/png;base64,QUJD\n",
		"missing subtype":    "data:image;base64,QUJD",
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := attachment.Decode(in)
			if !errors.Is(err, domain.ErrMalformedAttachment) {
				t.Fatalf("expected ErrMalformedAttachment, got %v", err)
			}
		})
	}
}

func TestDecodeKeepsFullPayload(t *testing.T) {
	mt, raw, err := attachment.Decode("data:image/png;name=scan.png;base64,QUJDREVG")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mt != "image/png" {
		t.Errorf("expected image/png, got %q", mt)
	}
	if string(raw) != "ABCDEF" {
		t.Errorf("expected ABCDEF, got %q", raw)
	}
}

func TestParseAndString(t *testing.T) {
	in := "data:image/webp;base64,AAEC"
	a, err := attachment.Parse(in)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.MediaType != "image/webp" || a.Payload != "AAEC" {
		t.Fatalf("unexpected attachment: %+v", a)
	}
	if got := attachment.String(a); got != in {
		t.Errorf("String: expected %q, got %q", in, got)
	}
	if got := attachment.String(nil); got != "" {
		t.Errorf("String(nil): expected empty, got %q", got)
	}
}

func TestBytesValidatesStoredAttachment(t *testing.T) {
	if _, _, err := attachment.Bytes(&domain.Attachment{MediaType: "image/png", Payload: "%%%"}); !errors.Is(err, domain.ErrMalformedAttachment) {
		t.Errorf("expected ErrMalformedAttachment for bad payload, got %v", err)
	}
	if _, _, err := attachment.Bytes(&domain.Attachment{MediaType: "png", Payload: "QUJD"}); !errors.Is(err, domain.ErrMalformedAttachment) {
		t.Errorf("expected ErrMalformedAttachment for bad media type, got %v", err)
	}
	if _, _, err := attachment.Bytes(nil); !errors.Is(err, domain.ErrMalformedAttachment) {
		t.Errorf("expected ErrMalformedAttachment for nil, got %v", err)
	}
}
