package abap

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Languages maps the ISO codes of supported logon languages to their
// one-character SAP language key (SPRAS).
var Languages = map[string]string{
	"ar": "A",
	"bg": "W",
	"ca": "c",
	"cs": "C",
	"da": "K",
	"de": "D",
	"el": "G",
	"en": "E",
	"es": "S",
	"et": "9",
	"fi": "U",
	"fr": "F",
	"he": "B",
	"hr": "6",
	"hu": "H",
	"it": "I",
	"ja": "J",
	"ko": "3",
	"lt": "X",
	"lv": "Y",
	"nl": "N",
	"no": "O",
	"pl": "L",
	"pt": "P",
	"ro": "4",
	"ru": "R",
	"sh": "0",
	"sk": "Q",
	"sl": "5",
	"sv": "V",
	"th": "2",
	"tr": "T",
	"uk": "8",
	"zf": "M",
	"zh": "1",
}

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "en"

// ParseLanguage normalizes a language given as ISO code or BCP 47 tag
// ("en", "EN", "en-US", "de_DE", "zh-TW") to a key of Languages.
func ParseLanguage(s string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return DefaultLanguage, nil
	}
	if _, ok := Languages[key]; ok {
		return key, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(key, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, s)
	}
	base, _ := tag.Base()
	code := base.String()
	if code == "zh" {
		if script, _ := tag.Script(); script.String() == "Hant" {
			code = "zf"
		}
	}
	if _, ok := Languages[code]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, s)
	}
	return code, nil
}

// SupportedLanguages returns the keys of Languages in sorted order.
func SupportedLanguages() []string {
	out := make([]string, 0, len(Languages))
	for k := range Languages {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
