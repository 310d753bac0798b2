package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

// Encoding names the text encoding of a source file
type Encoding string

const (
	EncodingAuto  Encoding = "auto"  // UTF-8 when valid, CP949 otherwise
	EncodingUTF8  Encoding = "utf-8" // UTF-8, optional BOM
	EncodingCP949 Encoding = "cp949" // Korean Windows code page (EUC-KR superset)
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrInvalidUTF8 is returned when a file declared as UTF-8 is not
var ErrInvalidUTF8 = errors.New("file is not valid UTF-8")

// ParseEncoding accepts the usual spellings of the supported encodings
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8", "utf-8-sig":
		return EncodingUTF8, nil
	case "cp949", "ms949", "euc-kr", "euckr", "uhc":
		return EncodingCP949, nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s", s)
	}
}

// Decode converts raw file bytes to UTF-8
func Decode(data []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingAuto, "":
		if trimmed, ok := bytes.CutPrefix(data, utf8BOM); ok {
			return trimmed, nil
		}
		if utf8.Valid(data) {
			return data, nil
		}
		return decodeCP949(data)
	case EncodingUTF8:
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, ErrInvalidUTF8
		}
		return data, nil
	case EncodingCP949:
		return decodeCP949(data)
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", enc)
	}
}

func decodeCP949(data []byte) ([]byte, error) {
	out, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode cp949: %w", err)
	}
	return out, nil
}
