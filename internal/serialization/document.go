package serialization

import (
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// Document is a syntactically valid JSON value returned by a remote API,
// or a value nested inside one.
//
// Field reads report the full path from the root document, so an error
// raised while reading the third element of a list names "data.2.id"
// rather than just "id".
type Document struct {
	value gjson.Result
	raw   string
	path  string
}

// Parse turns a raw response body into a Document. Only syntactic
// well-formedness is checked here.
func Parse(text string) (Document, error) {
	if !gjson.Valid(text) {
		return Document{}, malformed("", ErrInvalidJSON)
	}
	return Document{value: gjson.Parse(text), raw: text}, nil
}

// MustParse is like Parse but panics on invalid JSON. It is meant for
// tests and package-level fixtures.
func MustParse(text string) Document {
	doc, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return doc
}

// Raw returns the untouched payload this document was parsed from.
func (d Document) Raw() string {
	return d.raw
}

// Path returns the location of this document inside the root document,
// or "" for the root itself.
func (d Document) Path() string {
	return d.path
}

// Get returns the raw gjson result for a field relative to this document.
func (d Document) Get(field string) gjson.Result {
	return d.value.Get(field)
}

// Has reports whether field is present and not JSON null.
func (d Document) Has(field string) bool {
	r := d.value.Get(field)
	return r.Exists() && r.Type != gjson.Null
}

// Sub returns the document nested at field. The field must be an object.
func (d Document) Sub(field string) (Document, error) {
	r := d.value.Get(field)
	if !r.Exists() {
		return Document{}, malformed(d.join(field), ErrFieldMissing)
	}
	if !r.IsObject() {
		return Document{}, malformed(d.join(field), ErrFieldType)
	}
	return Document{value: r, raw: r.Raw, path: d.join(field)}, nil
}

// Elements returns the elements of the array at field, in wire order.
func (d Document) Elements(field string) ([]Document, error) {
	r := d.value.Get(field)
	if !r.Exists() {
		return nil, malformed(d.join(field), ErrFieldMissing)
	}
	if !r.IsArray() {
		return nil, malformed(d.join(field), ErrFieldType)
	}

	arr := r.Array()
	elems := make([]Document, 0, len(arr))
	for i, e := range arr {
		elems = append(elems, Document{
			value: e,
			raw:   e.Raw,
			path:  d.join(field + "." + strconv.Itoa(i)),
		})
	}
	return elems, nil
}

func (d Document) join(field string) string {
	if d.path == "" {
		return field
	}
	return d.path + "." + field
}

func (d Document) lookup(field string) (gjson.Result, error) {
	r := d.value.Get(field)
	if !r.Exists() || r.Type == gjson.Null {
		return r, malformed(d.join(field), ErrFieldMissing)
	}
	return r, nil
}

// RequireString reads a required string field.
func (d Document) RequireString(field string) (string, error) {
	r, err := d.lookup(field)
	if err != nil {
		return "", err
	}
	if r.Type != gjson.String {
		return "", malformed(d.join(field), ErrFieldType)
	}
	return r.Str, nil
}

// OptionalString reads a string field, returning def when it is absent or null.
func (d Document) OptionalString(field, def string) (string, error) {
	r := d.value.Get(field)
	if !r.Exists() || r.Type == gjson.Null {
		return def, nil
	}
	if r.Type != gjson.String {
		return "", malformed(d.join(field), ErrFieldType)
	}
	return r.Str, nil
}

// RequireInt reads a required integer field, such as a Unix timestamp.
func (d Document) RequireInt(field string) (int64, error) {
	r, err := d.lookup(field)
	if err != nil {
		return 0, err
	}
	if r.Type != gjson.Number {
		return 0, malformed(d.join(field), ErrFieldType)
	}
	n, ok := exactInt(r)
	if !ok {
		return 0, malformed(d.join(field), ErrFieldType)
	}
	return n, nil
}

// exactInt returns the value of a JSON number that is an integer within the
// int64 range. Fractions and out-of-range values are rejected rather than
// truncated or wrapped.
func exactInt(r gjson.Result) (int64, bool) {
	if n, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
		return n, true
	}
	// Integral values written with a fraction or exponent, such as 1.0 or 1e3.
	if r.Num != math.Trunc(r.Num) || r.Num < math.MinInt64 || r.Num >= math.MaxInt64 {
		return 0, false
	}
	return int64(r.Num), true
}

// RequireFloat reads a required number field as is.
func (d Document) RequireFloat(field string) (float64, error) {
	r, err := d.lookup(field)
	if err != nil {
		return 0, err
	}
	if r.Type != gjson.Number {
		return 0, malformed(d.join(field), ErrFieldType)
	}
	return r.Num, nil
}

// RequireBool reads a required boolean field.
func (d Document) RequireBool(field string) (bool, error) {
	r, err := d.lookup(field)
	if err != nil {
		return false, err
	}
	if r.Type != gjson.True && r.Type != gjson.False {
		return false, malformed(d.join(field), ErrFieldType)
	}
	return r.Bool(), nil
}

// RequireFloats reads a required array of numbers, such as an embedding vector.
func (d Document) RequireFloats(field string) ([]float64, error) {
	r, err := d.lookup(field)
	if err != nil {
		return nil, err
	}
	if !r.IsArray() {
		return nil, malformed(d.join(field), ErrFieldType)
	}

	arr := r.Array()
	out := make([]float64, len(arr))
	for i, v := range arr {
		if v.Type != gjson.Number {
			return nil, malformed(d.join(field+"."+strconv.Itoa(i)), ErrFieldType)
		}
		out[i] = v.Num
	}
	return out, nil
}
