// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

// Object is a JSON object that remembers key order. Opaque values
// decode their objects into *Object; callers may also build one to
// control the key order of an encoded opaque value (a map[string]any
// encodes with sorted keys).
//
// Keys and Values may be set directly in a literal. After that, change
// the object through Set so the key index stays in step.
type Object struct {
	Keys   []string
	Values []any

	index map[string]int
}

// Set assigns value to key, keeping the position of an existing key.
func (o *Object) Set(key string, value any) {
	if i, ok := o.lookup(key); ok {
		o.Values[i] = value
		return
	}
	for len(o.Values) < len(o.Keys) {
		o.Values = append(o.Values, nil)
	}
	o.index[key] = len(o.Keys)
	o.Keys = append(o.Keys, key)
	o.Values = append(o.Values, value)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	if i, ok := o.lookup(key); ok && i < len(o.Values) {
		return o.Values[i], true
	}
	return nil, false
}

// lookup finds key through the index, rebuilding it when Keys was
// filled without Set.
func (o *Object) lookup(key string) (int, bool) {
	if i, ok := o.index[key]; ok && i < len(o.Keys) && o.Keys[i] == key {
		return i, true
	}
	if o.index != nil && len(o.index) == len(o.Keys) {
		return 0, false
	}
	o.index = make(map[string]int, len(o.Keys))
	for i, existing := range o.Keys {
		if _, seen := o.index[existing]; !seen {
			o.index[existing] = i
		}
	}
	i, ok := o.index[key]
	return i, ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Keys)
}

// MarshalJSON writes the object with its keys in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	buffer := []byte{'{'}
	for i, key := range o.Keys {
		if i > 0 {
			buffer = append(buffer, ',')
		}
		keyText, err := marshalJSON(key)
		if err != nil {
			return nil, err
		}
		buffer = append(buffer, keyText...)
		buffer = append(buffer, ':')
		var value any
		if i < len(o.Values) {
			value = o.Values[i]
		}
		valueText, err := marshalJSON(normalizeOpaque(value))
		if err != nil {
			return nil, err
		}
		buffer = append(buffer, valueText...)
	}
	return append(buffer, '}'), nil
}
