package siws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Bytes is a byte slice that decodes from either of the two shapes wallets
// put on the wire: a plain JSON array of numbers, or the JS serialization of
// a typed array as an object with stringified numeric keys
// ({"0":12,"1":255,...}). Object decoding is strict: keys must be dense
// 0..n-1 and every value an integer in [0,255].
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	out := make([]uint16, len(b))
	for i, v := range b {
		out[i] = uint16(v)
	}
	return json.Marshal(out)
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case []interface{}:
		out := make([]byte, len(v))
		for i, el := range v {
			n, err := toByte(el)
			if err != nil {
				return fmt.Errorf("byte array index %d: %w", i, err)
			}
			out[i] = n
		}
		*b = out
		return nil
	case map[string]interface{}:
		out := make([]byte, len(v))
		for key, el := range v {
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(out) || strconv.Itoa(idx) != key {
				return fmt.Errorf("byte object key %q: not a dense numeric index", key)
			}
			n, err := toByte(el)
			if err != nil {
				return fmt.Errorf("byte object key %q: %w", key, err)
			}
			out[idx] = n
		}
		*b = out
		return nil
	case nil:
		*b = nil
		return nil
	default:
		return fmt.Errorf("byte field must be an array or numeric-keyed object, got %T", raw)
	}
}

func toByte(v interface{}) (byte, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("value %v is not a number", v)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("value %s is not an integer", num)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("value %d out of byte range", n)
	}
	return byte(n), nil
}
