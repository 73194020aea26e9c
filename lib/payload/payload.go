// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

// Field is one named value of a payload.
type Field struct {
	Name  string
	Value Value
}

// Payload is an ordered set of named values. The zero value is an empty
// payload ready to use. A Payload is not safe for concurrent mutation.
type Payload struct {
	fields []Field
	index  map[string]int
}

// New returns a payload holding fields in order. A repeated name
// replaces the earlier value in place.
func New(fields ...Field) *Payload {
	p := &Payload{}
	for _, field := range fields {
		p.Set(field.Name, field.Value)
	}
	return p
}

// Set assigns value to name. A new name is appended; an existing name
// keeps its position. A nil value is stored as Null.
func (p *Payload) Set(name string, value Value) {
	if value == nil {
		value = Null{}
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if position, exists := p.index[name]; exists {
		p.fields[position].Value = value
		return
	}
	p.index[name] = len(p.fields)
	p.fields = append(p.fields, Field{Name: name, Value: value})
}

// Get returns the value stored under name.
func (p *Payload) Get(name string) (Value, bool) {
	if p == nil {
		return nil, false
	}
	position, exists := p.index[name]
	if !exists {
		return nil, false
	}
	return p.fields[position].Value, true
}

// Len returns the number of fields.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fields)
}

// Fields returns the fields in order. The slice is a copy; the values
// are shared.
func (p *Payload) Fields() []Field {
	if p == nil {
		return nil
	}
	return append([]Field(nil), p.fields...)
}

// Names returns the field names in order.
func (p *Payload) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.fields))
	for i, field := range p.fields {
		names[i] = field.Name
	}
	return names
}

// Equal reports whether p and other hold the same names in the same
// order with equal values.
func (p *Payload) Equal(other *Payload) bool {
	if p.Len() != other.Len() {
		return false
	}
	for i := range p.Len() {
		left, right := p.fields[i], other.fields[i]
		if left.Name != right.Name || !Equal(left.Value, right.Value) {
			return false
		}
	}
	return true
}
