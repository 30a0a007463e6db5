package abap

import "strings"

// Type is the canonical ABAP/RFC data type of a parameter or field.
type Type string

const (
	TypeChar      Type = "CHAR"
	TypeNum       Type = "NUM"
	TypeBCD       Type = "BCD"
	TypeDate      Type = "DATE"
	TypeTime      Type = "TIME"
	TypeFloat     Type = "FLOAT"
	TypeInt       Type = "INT"
	TypeInt1      Type = "INT1"
	TypeInt2      Type = "INT2"
	TypeInt8      Type = "INT8"
	TypeByte      Type = "BYTE"
	TypeString    Type = "STRING"
	TypeXString   Type = "XSTRING"
	TypeDecF16    Type = "DECF16"
	TypeDecF34    Type = "DECF34"
	TypeUTCLong   Type = "UTCLONG"
	TypeStructure Type = "STRUCTURE"
	TypeTable     Type = "TABLE"
	TypeUnknown   Type = "UNKNOWN"
)

// one-character ABAP internal type codes
var typeCodes = map[string]Type{
	"C": TypeChar,
	"N": TypeNum,
	"P": TypeBCD,
	"D": TypeDate,
	"T": TypeTime,
	"F": TypeFloat,
	"I": TypeInt,
	"B": TypeInt1,
	"S": TypeInt2,
	"8": TypeInt8,
	"X": TypeByte,
	"G": TypeString,
	"Y": TypeXString,
	"U": TypeStructure,
	"V": TypeStructure,
	"H": TypeTable,
}

var knownTypes = map[Type]struct{}{
	TypeChar: {}, TypeNum: {}, TypeBCD: {}, TypeDate: {}, TypeTime: {},
	TypeFloat: {}, TypeInt: {}, TypeInt1: {}, TypeInt2: {}, TypeInt8: {},
	TypeByte: {}, TypeString: {}, TypeXString: {}, TypeDecF16: {}, TypeDecF34: {},
	TypeUTCLong: {}, TypeStructure: {}, TypeTable: {},
}

// ParseType resolves the type notations a backend may report ("CHAR",
// "RFCTYPE_CHAR", "C") to a Type. Unrecognized input yields TypeUnknown and
// false.
func ParseType(raw string) (Type, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "RFCTYPE_")
	if t, ok := typeCodes[s]; ok {
		return t, true
	}
	if _, ok := knownTypes[Type(s)]; ok {
		return Type(s), true
	}
	return TypeUnknown, false
}

// IsContainer reports whether values of t hold fields of their own.
func (t Type) IsContainer() bool {
	return t == TypeStructure || t == TypeTable
}

// InitialValue is the JavaScript literal a call template uses for an empty
// value of t.
func (t Type) InitialValue() string {
	switch t {
	case TypeInt, TypeInt1, TypeInt2, TypeFloat:
		return "0"
	case TypeInt8:
		return `"0"`
	case TypeBCD, TypeDecF16, TypeDecF34:
		return `"0.00"`
	case TypeDate:
		return `"00000000"`
	case TypeTime:
		return `"000000"`
	case TypeByte, TypeXString:
		return "Buffer.alloc(0)"
	case TypeStructure:
		return "{}"
	case TypeTable:
		return "[]"
	}
	return `""`
}
