package serialization

// UnpackList unpacks every element of doc's "data" array, in wire order.
//
// Each element is validated against element before it is unpacked (unless
// element is ObjectNone). The first failing element aborts the whole list.
// An empty array yields an empty, non-nil slice.
func UnpackList[T any](doc Document, element Object, unpack Unpacker[T]) ([]T, error) {
	elems, err := doc.Elements("data")
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(elems))
	for _, e := range elems {
		v, err := ValidateAndUnpack(e, element, unpack)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ExpectListOf returns a SchemaMismatch if doc is not a list, or if any
// element of its "data" array is not of the given kind. An empty list
// passes.
func ExpectListOf(doc Document, element Object) error {
	if err := Expect(doc, ObjectList); err != nil {
		return err
	}

	elems, err := doc.Elements("data")
	if err != nil {
		return err
	}
	for _, e := range elems {
		if err := Expect(e, element); err != nil {
			return err
		}
	}
	return nil
}

// UnpackCosts unpacks a validated costs "page": each bucket is validated
// and unpacked in wire order and the running total is accumulated.
func UnpackCosts(doc Document) (Costs, error) {
	perBucket, err := UnpackList(doc, ObjectBucket, UnpackCostBucket)
	if err != nil {
		return Costs{}, err
	}

	costs := Costs{Raw: doc.Raw()}
	for _, buckets := range perBucket {
		for _, b := range buckets {
			costs.Buckets = append(costs.Buckets, b)
			costs.Total += b.Cost
		}
	}
	return costs, nil
}

// Open parses text and checks it for an error envelope of the given backend.
func Open(text string, backend Backend) (Document, error) {
	doc, err := Parse(text)
	if err != nil {
		return Document{}, err
	}
	if err := CheckError(doc, backend); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Decode is the full pipeline for a single-object payload: parse, detect
// an error envelope, validate the discriminator and unpack.
func Decode[T any](text string, backend Backend, object Object, unpack Unpacker[T]) (T, error) {
	doc, err := Open(text, backend)
	if err != nil {
		var zero T
		return zero, err
	}
	return ValidateAndUnpack(doc, object, unpack)
}

// DecodeList is the full pipeline for a "list" payload. The returned List
// keeps the raw text alongside the typed items.
func DecodeList[T any](text string, backend Backend, element Object, unpack Unpacker[T]) (List[T], error) {
	doc, err := Open(text, backend)
	if err != nil {
		return List[T]{}, err
	}
	return Collect(doc, element, unpack)
}

// Collect validates that doc is a "list" and unpacks its elements, keeping
// the raw payload alongside the typed items.
func Collect[T any](doc Document, element Object, unpack Unpacker[T]) (List[T], error) {
	if err := Expect(doc, ObjectList); err != nil {
		return List[T]{}, err
	}

	items, err := UnpackList(doc, element, unpack)
	if err != nil {
		return List[T]{}, err
	}
	return List[T]{Items: items, Raw: doc.Raw()}, nil
}

// DecodeCosts is the full pipeline for a costs "page" payload.
func DecodeCosts(text string) (Costs, error) {
	return Decode(text, BackendOpenAI, ObjectPage, UnpackCosts)
}
