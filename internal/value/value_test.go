package value

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		typeName string
		text     string
		want     Value
		wantErr  error
	}{
		{name: "IntSimple", typeName: "int", text: "42", want: IntValue(42)},
		{name: "IntZero", typeName: "int", text: "0", want: IntValue(0)},
		{name: "IntTrailingGarbage", typeName: "int", text: "12x", wantErr: ErrSyntax},
		{name: "IntNegativeRejected", typeName: "int", text: "-3", wantErr: ErrSyntax},
		{name: "IntEmpty", typeName: "int", text: "", wantErr: ErrSyntax},

		{name: "HexPrefixed", typeName: "hex", text: "0x1A", want: IntValue(26)},
		{name: "HexUpperPrefix", typeName: "hex", text: "0X1a", want: IntValue(26)},
		{name: "HexBare", typeName: "hex", text: "3AF4", want: IntValue(0x3af4)},
		{name: "HexPrefixOnly", typeName: "hex", text: "0x", wantErr: ErrSyntax},
		{name: "HexBadDigit", typeName: "hex", text: "0x1G", wantErr: ErrSyntax},

		{name: "Octal", typeName: "octal", text: "17", want: IntValue(15)},
		{name: "OctalLeadingZero", typeName: "octal", text: "0123", want: IntValue(0o123)},
		{name: "OctalBadDigit", typeName: "octal", text: "18", wantErr: ErrSyntax},

		{name: "FloatWhole", typeName: "float", text: "3", want: FloatValue(3)},
		{name: "FloatFraction", typeName: "float", text: "3.14", want: FloatValue(3.14)},
		{name: "FloatLoneDot", typeName: "float", text: "3.", wantErr: ErrSyntax},
		{name: "FloatExponentRejected", typeName: "float", text: "1e5", wantErr: ErrSyntax},
		{name: "FloatSignRejected", typeName: "float", text: "-1.5", wantErr: ErrSyntax},

		{name: "BoolTrue", typeName: "bool", text: "true", want: BoolValue(true)},
		{name: "BoolFalse", typeName: "bool", text: "false", want: BoolValue(false)},
		{name: "BoolOne", typeName: "bool", text: "1", want: BoolValue(true)},
		{name: "BoolZero", typeName: "bool", text: "0", want: BoolValue(false)},
		{name: "BooleanAlias", typeName: "boolean", text: "true", want: BoolValue(true)},
		{name: "BoolMixedCaseRejected", typeName: "bool", text: "True", wantErr: ErrSyntax},
		{name: "BoolGarbage", typeName: "bool", text: "yes", wantErr: ErrSyntax},

		{name: "CharQuoted", typeName: "char", text: "'a'", want: CharValue('a')},
		{name: "CharBare", typeName: "char", text: "z", want: CharValue('z')},
		{name: "CharDigit", typeName: "char", text: "'4'", want: CharValue('4')},
		{name: "CharNewlineEscape", typeName: "char", text: `'\n'`, want: CharValue('\n')},
		{name: "CharTabEscapeBare", typeName: "char", text: `\t`, want: CharValue('\t')},
		{name: "CharTooLong", typeName: "char", text: "ab", wantErr: ErrSyntax},
		{name: "CharEmpty", typeName: "char", text: "", wantErr: ErrSyntax},

		{name: "StringQuoted", typeName: "string", text: `"Hello, World!"`, want: StringValue("Hello, World!")},
		{name: "StringEmptyQuoted", typeName: "string", text: `""`, want: StringValue("")},
		{name: "StringBare", typeName: "string", text: "plain", want: StringValue("plain")},
		{name: "StringInnerQuote", typeName: "string", text: `"a"b"`, wantErr: ErrSyntax},

		{name: "UnknownType", typeName: "double", text: "1.0", wantErr: ErrUnknownType},
		{name: "UnknownTypeEmpty", typeName: "", text: "1", wantErr: ErrUnknownType},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.typeName, tc.text)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			if got != tc.want {
				t.Fatalf("unexpected value: got %v (%s) want %v (%s)", got, got.Kind(), tc.want, tc.want.Kind())
			}
		})
	}
}

func TestParseNormalizesKinds(t *testing.T) {
	t.Parallel()

	for _, typeName := range []string{"hex", "octal"} {
		v, err := Parse(typeName, "17")
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", typeName, err)
		}
		if v.Kind() != KindInt {
			t.Fatalf("expected %s to store as int, got %s", typeName, v.Kind())
		}
	}

	v, err := Parse("boolean", "false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindBool {
		t.Fatalf("expected boolean to store as bool, got %s", v.Kind())
	}
}

func TestValueString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value Value
		want  string
	}{
		{IntValue(26), "26"},
		{FloatValue(3.14), "3.14"},
		{BoolValue(true), "true"},
		{CharValue('a'), "'a'"},
		{StringValue("hi"), `"hi"`},
		{Value{}, "<invalid>"},
	}

	for _, tc := range tests {
		if got := tc.value.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	kinds := map[Kind]string{
		KindInvalid: "invalid",
		KindInt:     "int",
		KindFloat:   "float",
		KindBool:    "bool",
		KindChar:    "char",
		KindString:  "string",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d): expected %q, got %q", k, want, got)
		}
	}
}
