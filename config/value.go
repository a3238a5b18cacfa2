// Package config provides the tagged configuration-value tree that every
// topology and routing builder in package topo consumes, plus a loader that
// turns a YAML document into that tree.
//
// The tree itself is the one piece of "parsing" the core owns. Recognized
// shapes mirror the upstream specification: Object (a name plus an ordered
// set of named fields), Array, Number, Literal, True, and False.
package config

import "fmt"

// Kind tags the variant held by a Value.
type Kind int

const (
	Object Kind = iota
	Array
	Number
	Literal
	True
	False
)

// Value is a node in the configuration tree.
type Value struct {
	kind    Kind
	name    string // Object only
	fields  []Field
	items   []Value // Array only
	number  float64
	literal string
}

// Field is a single named entry of an Object value.
type Field struct {
	Name  string
	Value Value
}

func NewObject(name string, fields []Field) Value {
	return Value{kind: Object, name: name, fields: fields}
}
func NewArray(items []Value) Value { return Value{kind: Array, items: items} }
func NewNumber(n float64) Value    { return Value{kind: Number, number: n} }
func NewLiteral(s string) Value    { return Value{kind: Literal, literal: s} }
func NewBool(b bool) Value {
	if b {
		return Value{kind: True}
	}
	return Value{kind: False}
}

// Kind reports which variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// ObjectName returns the name of an Object value; panics otherwise.
func (v Value) ObjectName() string {
	if v.kind != Object {
		panic(fmt.Sprintf("config: ObjectName called on a non-object value (kind %d)", v.kind))
	}
	return v.name
}

// Field looks up a named field on an Object value. ok is false if absent.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Object {
		panic(fmt.Sprintf("config: Field called on a non-object value (kind %d)", v.kind))
	}
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// FieldNames returns every field name present on an Object value, in order.
// legend_name is included like any other field; callers that enumerate
// accepted names should ignore it explicitly, per the "accepted everywhere
// and ignored" rule.
func (v Value) FieldNames() []string {
	if v.kind != Object {
		panic(fmt.Sprintf("config: FieldNames called on a non-object value (kind %d)", v.kind))
	}
	names := make([]string, len(v.fields))
	for i, f := range v.fields {
		names[i] = f.Name
	}
	return names
}

// RequireField looks up a named field on an Object value, panicking with a
// descriptive message (naming the field and the enclosing object) if absent.
func (v Value) RequireField(name string) Value {
	f, ok := v.Field(name)
	if !ok {
		panic(fmt.Sprintf("config: object %q is missing required field %q", v.name, name))
	}
	return f
}

// CheckKnownFields panics naming the first field whose name is not in known
// and is not "legend_name", which is always accepted and ignored.
func (v Value) CheckKnownFields(known ...string) {
	allowed := make(map[string]bool, len(known)+1)
	for _, k := range known {
		allowed[k] = true
	}
	allowed["legend_name"] = true
	for _, f := range v.fields {
		if !allowed[f.Name] {
			panic(fmt.Sprintf("config: unknown field %q on object %q", f.Name, v.name))
		}
	}
}

// Items returns the elements of an Array value.
func (v Value) Items() []Value {
	if v.kind != Array {
		panic(fmt.Sprintf("config: Items called on a non-array value (kind %d)", v.kind))
	}
	return v.items
}

// AsNumber returns a Number value as a float64.
func (v Value) AsNumber() float64 {
	if v.kind != Number {
		panic(fmt.Sprintf("config: AsNumber called on a non-number value (kind %d)", v.kind))
	}
	return v.number
}

// AsInt returns a Number value truncated to int, a common case for counts
// and indices throughout the topology/routing builders.
func (v Value) AsInt() int {
	return int(v.AsNumber())
}

// AsLiteral returns a Literal value as a string.
func (v Value) AsLiteral() string {
	if v.kind != Literal {
		panic(fmt.Sprintf("config: AsLiteral called on a non-literal value (kind %d)", v.kind))
	}
	return v.literal
}

// AsBool returns a True/False value as a bool.
func (v Value) AsBool() bool {
	switch v.kind {
	case True:
		return true
	case False:
		return false
	default:
		panic(fmt.Sprintf("config: AsBool called on a non-boolean value (kind %d)", v.kind))
	}
}

// AsIntSlice reads an Array of Numbers into a []int, the common shape for
// fields like "sides" or "order".
func (v Value) AsIntSlice() []int {
	items := v.Items()
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.AsInt()
	}
	return out
}
