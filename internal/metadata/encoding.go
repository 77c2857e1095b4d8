package metadata

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// decode detects the character set of raw and converts it to UTF-8. The
// detected charset name is returned alongside the text. Undetectable or
// unsupported charsets fall back to UTF-8 when raw is valid UTF-8, and to
// ISO-8859-1 (the Inform 6 default source charset) otherwise.
func decode(raw []byte) (string, string) {
	if len(raw) == 0 {
		return "", "UTF-8"
	}
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || result == nil || result.Charset == "" {
		return fallbackDecode(raw)
	}
	name := result.Charset
	if strings.EqualFold(name, "UTF-8") && utf8.Valid(raw) {
		return string(raw), name
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return fallbackDecode(raw)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil || !utf8.Valid(decoded) {
		return fallbackDecode(raw)
	}
	return string(decoded), name
}

func fallbackDecode(raw []byte) (string, string) {
	if utf8.Valid(raw) {
		return string(raw), "UTF-8"
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw), "UTF-8"
	}
	return string(decoded), "ISO-8859-1"
}
