package issuance

import (
	"bytes"
	"encoding/json"
)

type field struct {
	key   string
	value []byte
	omit  bool
}

// encodeObject hand-rolls a compact JSON object in caller-supplied key
// order, the same reasoning as the transaction core's content encoder:
// an issuance's content is signed, so its byte layout can't be left to
// however a map happens to range.
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
