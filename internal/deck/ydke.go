// Package deck handles the setup-side collaborators: deck-code parsing and
// the deterministic client-side shuffle preview.
package deck

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

const ydkePrefix = "ydke://"

// Deck is the three ordered passcode lists a deck code carries.
type Deck struct {
	Main  []uint32
	Extra []uint32
	Side  []uint32
}

// ParseYDKE decodes a ydke:// deck URL: three !-separated base64 blocks of
// little-endian uint32 passcodes (main, extra, side).
func ParseYDKE(url string) (Deck, error) {
	if !strings.HasPrefix(url, ydkePrefix) {
		return Deck{}, fmt.Errorf("deck: unrecognized URL protocol in %q", truncate(url))
	}
	components := strings.Split(strings.TrimPrefix(url, ydkePrefix), "!")
	if len(components) < 3 {
		return Deck{}, fmt.Errorf("deck: missing ydke URL component")
	}

	var d Deck
	var err error
	if d.Main, err = base64ToPasscodes(components[0]); err != nil {
		return Deck{}, fmt.Errorf("deck: main deck: %w", err)
	}
	if d.Extra, err = base64ToPasscodes(components[1]); err != nil {
		return Deck{}, fmt.Errorf("deck: extra deck: %w", err)
	}
	if d.Side, err = base64ToPasscodes(components[2]); err != nil {
		return Deck{}, fmt.Errorf("deck: side deck: %w", err)
	}
	return d, nil
}

// FormatYDKE encodes a deck back into its URL form.
func FormatYDKE(d Deck) string {
	return ydkePrefix +
		passcodesToBase64(d.Main) + "!" +
		passcodesToBase64(d.Extra) + "!" +
		passcodesToBase64(d.Side) + "!"
}

func base64ToPasscodes(s string) ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("passcode block length %d is not a multiple of 4", len(raw))
	}
	codes := make([]uint32, len(raw)/4)
	for i := range codes {
		codes[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return codes, nil
}

func passcodesToBase64(codes []uint32) string {
	raw := make([]byte, len(codes)*4)
	for i, c := range codes {
		binary.LittleEndian.PutUint32(raw[i*4:], c)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func truncate(s string) string {
	if len(s) > 24 {
		return s[:24] + "..."
	}
	return s
}
