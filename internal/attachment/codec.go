// Package attachment converts images to and from self-describing data URLs
// of the form "data:<type>/<subtype>;base64,<payload>".
package attachment

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

const token = `[A-Za-z0-9][A-Za-z0-9!#$&^_.+-]{0,126}`

var (
	mediaTypePattern = regexp.MustCompile(`^` + token + `/` + token + `$`)

	// Parameters between the media type and ";base64" are accepted and dropped.
	dataURLPattern = regexp.MustCompile(
		`^data:(` + token + `/` + token + `)(?:;` + token + `=[^;,]{0,128}){0,4};base64,([A-Za-z0-9+/]*={0,2})$`,
	)

	encoding = base64.StdEncoding.Strict()
)

// Encode renders raw bytes as a data URL. mediaType must be a bare type/subtype.
func Encode(raw []byte, mediaType string) (string, error) {
	a, err := FromBytes(raw, mediaType)
	if err != nil {
		return "", err
	}
	return String(a), nil
}

// Decode is the inverse of Encode.
func Decode(s string) (string, []byte, error) {
	a, err := Parse(s)
	if err != nil {
		return "", nil, err
	}
	return Bytes(a)
}

// FromBytes builds an attachment from raw image bytes.
func FromBytes(raw []byte, mediaType string) (*domain.Attachment, error) {
	if !mediaTypePattern.MatchString(mediaType) {
		return nil, fmt.Errorf("%w: invalid media type %q", domain.ErrMalformedAttachment, mediaType)
	}
	return &domain.Attachment{
		MediaType: mediaType,
		Payload:   encoding.EncodeToString(raw),
	}, nil
}

// Parse splits a data URL into an attachment and verifies that the payload decodes.
func Parse(s string) (*domain.Attachment, error) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: not a base64 data URL", domain.ErrMalformedAttachment)
	}
	a := &domain.Attachment{MediaType: m[1], Payload: m[2]}
	if _, _, err := Bytes(a); err != nil {
		return nil, err
	}
	return a, nil
}

// String renders an attachment as a data URL. A nil attachment renders as "".
func String(a *domain.Attachment) string {
	if a == nil {
		return ""
	}
	return "data:" + a.MediaType + ";base64," + a.Payload
}

// Bytes validates an attachment and returns its media type and decoded payload.
func Bytes(a *domain.Attachment) (string, []byte, error) {
	if a == nil {
		return "", nil, fmt.Errorf("%w: missing", domain.ErrMalformedAttachment)
	}
	if !mediaTypePattern.MatchString(a.MediaType) {
		return "", nil, fmt.Errorf("%w: invalid media type %q", domain.ErrMalformedAttachment, a.MediaType)
	}
	raw, err := encoding.DecodeString(a.Payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrMalformedAttachment, err)
	}
	return a.MediaType, raw, nil
}
