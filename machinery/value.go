// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ValueKind tells which payload a Value carries.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindTime
	KindLocalizedText
	KindQualifiedName
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindLocalizedText:
		return "localized_text"
	case KindQualifiedName:
		return "qualified_name"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// LocalizedText is a human-readable text with an optional locale.
type LocalizedText struct {
	Locale string
	Text   string
}

// QualifiedName is a name scoped by a namespace index.
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

// String returns "ns:name", or only the name in namespace 0.
func (qn QualifiedName) String() string {
	if qn.NamespaceIndex == 0 {
		return qn.Name
	}
	return fmt.Sprintf("%d:%s", qn.NamespaceIndex, qn.Name)
}

// Value is a decoded attribute or property value. The zero Value is null.
type Value struct {
	kind   ValueKind
	b      bool
	i      int64
	u      uint64
	f      float64
	text   string
	locale string
	ns     uint16
	t      time.Time
}

func Null() Value            { return Value{} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Uint(u uint64) Value    { return Value{kind: KindUint, u: u} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func String(s string) Value  { return Value{kind: KindString, text: s} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }
func Text(lt LocalizedText) Value {
	return Value{kind: KindLocalizedText, text: lt.Text, locale: lt.Locale}
}

func Name(qn QualifiedName) Value {
	return Value{kind: KindQualifiedName, text: qn.Name, ns: qn.NamespaceIndex}
}

// Kind returns the payload kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value has no payload.
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() (bool, bool)      { return v.b, v.kind == KindBool }
func (v Value) Int() (int64, bool)      { return v.i, v.kind == KindInt }
func (v Value) Uint() (uint64, bool)    { return v.u, v.kind == KindUint }
func (v Value) Float() (float64, bool)  { return v.f, v.kind == KindFloat }
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindTime }
func (v Value) Str() (string, bool)     { return v.text, v.kind == KindString }

func (v Value) LocalizedText() (LocalizedText, bool) {
	return LocalizedText{Locale: v.locale, Text: v.text}, v.kind == KindLocalizedText
}

func (v Value) QualifiedName() (QualifiedName, bool) {
	return QualifiedName{NamespaceIndex: v.ns, Name: v.text}, v.kind == KindQualifiedName
}

// String renders the value as plain text.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString, KindLocalizedText:
		return v.text
	case KindQualifiedName:
		return QualifiedName{NamespaceIndex: v.ns, Name: v.text}.String()
	case KindTime:
		return v.t.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// MarshalJSON encodes text-like kinds as strings, times as RFC 3339 and
// numbers as JSON numbers. Non-finite floats are encoded as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool, KindInt, KindUint:
		return []byte(v.String()), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	default:
		return json.Marshal(v.String())
	}
}

// UnmarshalJSON decodes a stored value. Type information beyond the JSON
// type is not recoverable, so strings decode as KindString and integral
// numbers as KindInt or KindUint.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case nil:
		*v = Null()
	case bool:
		*v = Bool(val)
	case string:
		*v = String(val)
	case json.Number:
		if i, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			*v = Int(i)
			return nil
		}
		if u, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			*v = Uint(u)
			return nil
		}
		f, err := val.Float64()
		if err != nil {
			return err
		}
		*v = Float(f)
	default:
		return fmt.Errorf("unsupported value %s", string(data))
	}
	return nil
}
