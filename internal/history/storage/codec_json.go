package storage

import "encoding/json"

var _ Codec[string, any] = (*JSONCodec[any])(nil)

// JSONCodec stores string keys as their raw bytes, so byte order is key
// order, and values as JSON.
type JSONCodec[V any] struct{}

func (c *JSONCodec[V]) EncodeKey(key string) ([]byte, error) {
	return []byte(key), nil
}

func (c *JSONCodec[V]) DecodeKey(data []byte) (string, error) {
	return string(data), nil
}

func (c *JSONCodec[V]) EncodeValue(value V) ([]byte, error) {
	return json.Marshal(value)
}

func (c *JSONCodec[V]) DecodeValue(data []byte) (V, error) {
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return value, err
	}
	return value, nil
}
