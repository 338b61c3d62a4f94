package codepage

import "strings"

// Compare decodes data per the spec.md §4.10 routing rules for the given
// MAPI value shape (isASCII, asciiCodepage) and compares the result with
// utf8String, returning -1/0/1 the way libpff's compare_with_utf8 does.
func Compare(utf8String string, data []byte, isASCII bool, asciiCodepage int) (int, error) {
	var (
		decoded string
		err     error
	)
	switch {
	case isASCII:
		decoded, err = DecodeASCIIValue(data, asciiCodepage)
	default:
		decoded, err = DecodeUnicodeValue(data)
	}
	if err != nil {
		return 0, err
	}
	return strings.Compare(utf8String, decoded), nil
}
