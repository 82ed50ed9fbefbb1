package value

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse converts a raw value token into a typed Value according to the declared
// type name. The whole token must match the type's grammar; trailing or leading
// garbage is a syntax error, not ignored. Parse performs no I/O and is safe to
// call concurrently.
//
// Recognized type names and their grammars:
//
//	int      [0-9]+                          decimal
//	hex      (0x|0X)?[0-9A-Fa-f]+            base 16, stored as int
//	octal    [0-7]+                          base 8, stored as int
//	float    [0-9]+(\.[0-9]+)?               decimal
//	bool     true | false | 1 | 0            also spelled "boolean"
//	char     'x', x, or the escapes \n \r \t
//	string   optionally "-quoted text
//
// Unrecognized type names yield ErrUnknownType; tokens that do not fully match
// their grammar yield ErrSyntax.
func Parse(typeName, text string) (Value, error) {
	switch typeName {
	case "int":
		n, err := strconv.ParseUint(text, 10, 63)
		if err != nil {
			return Value{}, ErrSyntax
		}
		return IntValue(int64(n)), nil

	case "hex":
		digits := text
		if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
			digits = text[2:]
		}
		n, err := strconv.ParseUint(digits, 16, 63)
		if err != nil {
			return Value{}, ErrSyntax
		}
		return IntValue(int64(n)), nil

	case "octal":
		n, err := strconv.ParseUint(text, 8, 63)
		if err != nil {
			return Value{}, ErrSyntax
		}
		return IntValue(int64(n)), nil

	case "float":
		if !matchFloat(text) {
			return Value{}, ErrSyntax
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, ErrSyntax
		}
		return FloatValue(f), nil

	case "bool", "boolean":
		switch text {
		case "true", "1":
			return BoolValue(true), nil
		case "false", "0":
			return BoolValue(false), nil
		default:
			return Value{}, ErrSyntax
		}

	case "char":
		c, ok := parseChar(text)
		if !ok {
			return Value{}, ErrSyntax
		}
		return CharValue(c), nil

	case "string":
		s, ok := parseString(text)
		if !ok {
			return Value{}, ErrSyntax
		}
		return StringValue(s), nil

	default:
		return Value{}, ErrUnknownType
	}
}

// matchFloat checks the [0-9]+(\.[0-9]+)? grammar. strconv.ParseFloat accepts
// far more (signs, exponents, inf), so the shape is checked first.
func matchFloat(text string) bool {
	whole, frac, dotted := strings.Cut(text, ".")
	if !allDigits(whole) {
		return false
	}
	if dotted && !allDigits(frac) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseChar accepts a quoted single character ('x'), an escape sequence
// (\n, \r, \t, quoted or bare), or a bare single character. The quoted form is
// tried first.
func parseChar(text string) (rune, bool) {
	if len(text) >= 3 && strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'") {
		return decodeChar(text[1 : len(text)-1])
	}
	return decodeChar(text)
}

func decodeChar(inner string) (rune, bool) {
	switch inner {
	case `\n`:
		return '\n', true
	case `\r`:
		return '\r', true
	case `\t`:
		return '\t', true
	}
	if utf8.RuneCountInString(inner) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(inner)
	return r, true
}

// parseString strips surrounding double quotes when the token is fully quoted;
// otherwise the raw token is taken as-is. Quoted content must not itself
// contain a quote.
func parseString(text string) (string, bool) {
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		inner := text[1 : len(text)-1]
		if strings.Contains(inner, `"`) {
			return "", false
		}
		return inner, true
	}
	return text, true
}
