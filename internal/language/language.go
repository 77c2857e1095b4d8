package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
)

// English is the compiler's built-in language; it needs no directive.
const English = "English"

type entry struct {
	code2  string   // ISO 639-1 (2-letter)
	code3  string   // ISO 639-2 primary (3-letter)
	alt3   string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	inform string   // Inform 6 language_name
	words  []string // English and native word forms
	codes  bool     // codes and BCP 47 tags also resolve
}

// Only English and Danish answer to short codes. Other translations need a
// full name, so a header value such as "no" or "it" never switches language.
var languages = []entry{
	{"en", "eng", "", English, []string{"english"}, true},
	{"da", "dan", "", "Danish", []string{"danish", "dansk"}, true},
	{"de", "deu", "ger", "German", []string{"german", "deutsch"}, false},
	{"fr", "fra", "fre", "French", []string{"french", "francais", "français"}, false},
	{"es", "spa", "", "Spanish", []string{"spanish", "espanol", "español"}, false},
	{"it", "ita", "", "Italian", []string{"italian", "italiano"}, false},
	{"nl", "nld", "dut", "Dutch", []string{"dutch", "nederlands"}, false},
	{"sv", "swe", "", "Swedish", []string{"swedish", "svenska"}, false},
	{"no", "nor", "", "Norwegian", []string{"norwegian", "norsk"}, false},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		for _, w := range e.words {
			byWord[w] = e
		}
		if !e.codes {
			continue
		}
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
	}
}

func lookup(value string) *entry {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil
	}
	if e, ok := byWord[value]; ok {
		return e
	}
	if e, ok := byCode2[value]; ok {
		return e
	}
	if e, ok := byCode3[value]; ok {
		return e
	}
	// BCP 47 tags such as "da-DK".
	tag, err := xlanguage.Parse(value)
	if err != nil {
		return nil
	}
	base, _ := tag.Base()
	if e, ok := byCode2[base.String()]; ok {
		return e
	}
	return nil
}

// Resolve returns the Inform language_name for value and whether value was
// recognized. Unrecognized and empty input resolve to English.
func Resolve(value string) (string, bool) {
	if e := lookup(value); e != nil {
		return e.inform, true
	}
	return English, false
}

// IsEnglish reports whether value names English or is empty.
func IsEnglish(value string) bool {
	name, _ := Resolve(value)
	return name == English
}
