package schema

import (
	"strconv"

	"github.com/wippyai/wasm-exchange/errors"
)

// ParamKind is the variant tag of a Param.
type ParamKind uint8

const (
	ParamInteger ParamKind = iota + 1
	ParamString
	ParamFloat
	ParamPassword
)

func (k ParamKind) String() string {
	switch k {
	case ParamInteger:
		return "Integer"
	case ParamString:
		return "String"
	case ParamFloat:
		return "Float"
	case ParamPassword:
		return "Password"
	default:
		return "Invalid"
	}
}

func parseParamKind(tag string) (ParamKind, bool) {
	switch tag {
	case "Integer":
		return ParamInteger, true
	case "String":
		return ParamString, true
	case "Float":
		return ParamFloat, true
	case "Password":
		return ParamPassword, true
	}
	return 0, false
}

const redacted = "********"

// Param is a single typed configuration value. The zero Param is invalid
// and refuses to marshal.
type Param struct {
	str  string
	num  uint32
	flt  float32
	kind ParamKind
}

// Integer returns an Integer param.
func Integer(v uint32) Param { return Param{kind: ParamInteger, num: v} }

// String returns a String param.
func String(v string) Param { return Param{kind: ParamString, str: v} }

// Float returns a Float param.
func Float(v float32) Param { return Param{kind: ParamFloat, flt: v} }

// Password returns a Password param. Its value is never included in
// String, GoString or log output.
func Password(v string) Param { return Param{kind: ParamPassword, str: v} }

// Kind returns the variant tag.
func (p Param) Kind() ParamKind { return p.kind }

// IsValid reports whether p was built by one of the constructors.
func (p Param) IsValid() bool {
	return p.kind >= ParamInteger && p.kind <= ParamPassword
}

// AsInteger returns the value of an Integer param.
func (p Param) AsInteger() (uint32, error) {
	return p.asInteger(nil)
}

// AsFloat returns the value of a Float param.
func (p Param) AsFloat() (float32, error) {
	return p.asFloat(nil)
}

// AsString returns the value of a String or Password param.
func (p Param) AsString() (string, error) {
	return p.asString(nil)
}

func (p Param) asInteger(path []string) (uint32, error) {
	if p.kind != ParamInteger {
		return 0, errors.WrongParamType(path, ParamInteger.String(), p.kind.String())
	}
	return p.num, nil
}

func (p Param) asFloat(path []string) (float32, error) {
	if p.kind != ParamFloat {
		return 0, errors.WrongParamType(path, ParamFloat.String(), p.kind.String())
	}
	return p.flt, nil
}

func (p Param) asString(path []string) (string, error) {
	if p.kind != ParamString && p.kind != ParamPassword {
		return "", errors.WrongParamType(path, ParamString.String(), p.kind.String())
	}
	return p.str, nil
}

// Equal reports whether both params hold the same variant and value.
func (p Param) Equal(other Param) bool {
	return p == other
}

// String renders the param for humans, masking passwords.
func (p Param) String() string {
	switch p.kind {
	case ParamInteger:
		return "Integer(" + strconv.FormatUint(uint64(p.num), 10) + ")"
	case ParamString:
		return "String(" + strconv.Quote(p.str) + ")"
	case ParamFloat:
		return "Float(" + strconv.FormatFloat(float64(p.flt), 'g', -1, 32) + ")"
	case ParamPassword:
		return "Password(" + redacted + ")"
	default:
		return "Invalid"
	}
}

// GoString keeps %#v from printing the password field.
func (p Param) GoString() string {
	return "schema." + p.String()
}
