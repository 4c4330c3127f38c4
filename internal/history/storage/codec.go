package storage

// Codec encodes keys and values for a byte-oriented backend. Key encodings
// must preserve the order of the keys.
type Codec[K, V any] interface {
	EncodeKey(K) ([]byte, error)
	DecodeKey([]byte) (K, error)
	EncodeValue(V) ([]byte, error)
	DecodeValue([]byte) (V, error)
}
