package txcore

import (
	"bytes"
	"encoding/json"
)

// field is one key/value pair of a canonical content object. value must
// already be compact JSON (encoding/json.Marshal never emits whitespace, so
// marshaling any Go value with it is sufficient).
type field struct {
	key   string
	value []byte
	omit  bool
}

// encodeObject hand-rolls a compact JSON object preserving the caller's
// field order instead of going through encoding/json's struct-tag
// (alphabetical-by-default, reflection driven) machinery. Transaction
// content is signed; its byte-for-byte layout is part of the wire format,
// so key order has to be a property of the code, not an accident of how a
// map happens to range.
func encodeObject(fields []field) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range fields {
		if f.omit {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyJSON, _ := json.Marshal(f.key)
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// addressAmount is one entry of an ordered address->amount mapping, in
// builder insertion order.
type addressAmount struct {
	address string
	amount  []byte // compact JSON
}

func encodeAddressAmountObject(entries []addressAmount) []byte {
	fields := make([]field, len(entries))
	for i, e := range entries {
		fields[i] = field{key: e.address, value: e.amount}
	}
	return encodeObject(fields)
}

func encodeArray(items [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(it)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
