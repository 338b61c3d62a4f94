package codepage

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// UTF-7 (RFC 2152) stream decode, used for codepage 65000 (spec.md §4.10).
//
// No library in the example corpus or in golang.org/x/text implements
// UTF-7 (x/text/encoding covers UTF-8/16/32 and single/double-byte
// charmaps only) — see DESIGN.md for the standard-library justification.
// This is a minimal decoder sufficient for the "mail-safe" variant PST
// actually stores: directly-encoded printable ASCII, '+' shifting into a
// modified-base64 block of UTF-16BE code units, terminated by a
// non-base64 byte or '-'.

const utf7Base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// DecodeUTF7 decodes a UTF-7 byte stream to UTF-8.
func DecodeUTF7(data []byte) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(data) {
		b := data[i]
		if b != '+' {
			if b > 0x7f {
				return "", fmt.Errorf("codepage: byte 0x%02x not valid in UTF-7 stream", b)
			}
			out.WriteByte(b)
			i++
			continue
		}
		// Shift sequence: '+' [base64 chars] ['-']
		i++
		if i < len(data) && data[i] == '-' {
			out.WriteByte('+')
			i++
			continue
		}
		start := i
		for i < len(data) && strings.IndexByte(utf7Base64Alphabet, data[i]) >= 0 {
			i++
		}
		encoded := string(data[start:i])
		if i < len(data) && data[i] == '-' {
			i++
		}
		if encoded == "" {
			continue
		}
		decoded, err := decodeUTF7Base64Block(encoded)
		if err != nil {
			return "", err
		}
		out.WriteString(decoded)
	}
	return out.String(), nil
}

func decodeUTF7Base64Block(encoded string) (string, error) {
	// Modified base64: no padding, '/' kept as the 64th character, so we
	// can pad and reuse the standard decoder.
	padded := encoded
	if rem := len(padded) % 4; rem != 0 {
		padded += strings.Repeat("=", 4-rem)
	}
	raw, err := base64.StdEncoding.DecodeString(padded)
	if err != nil {
		return "", fmt.Errorf("codepage: invalid utf-7 base64 block: %w", err)
	}
	// raw holds UTF-16BE code units, possibly with trailing pad bits; trim
	// to a whole number of 16-bit units.
	raw = raw[:len(raw)-len(raw)%2]
	units := make([]byte, len(raw))
	for i := 0; i+1 < len(raw); i += 2 {
		units[i], units[i+1] = raw[i+1], raw[i]
	}
	return DecodeUTF16LE(units)
}
