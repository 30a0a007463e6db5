package common

import (
	"strings"
	"unicode"
)

func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '/' || unicode.IsSpace(r)
	})

	var result strings.Builder
	for _, word := range words {
		if len(word) > 0 {
			result.WriteString(strings.ToUpper(string(word[0])))
			if len(word) > 1 {
				result.WriteString(strings.ToLower(word[1:]))
			}
		}
	}

	return result.String()
}

func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return ""
	}
	return strings.ToLower(string(pascal[0])) + pascal[1:]
}

// ToKebabCase turns "BAPI_SALESORDER_GETLIST" into "bapi-salesorder-getlist".
// Namespace slashes ("/COE/RBP_X") become dashes as well.
func ToKebabCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '/' || unicode.IsSpace(r)
	})
	return strings.ToLower(strings.Join(words, "-"))
}

// FileName maps an ABAP object name to a file base name. Namespace slashes
// are replaced, the case is kept.
func FileName(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}
