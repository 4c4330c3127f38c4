package serialization

import "github.com/tidwall/gjson"

// Object is the value of a payload's "object" discriminator field.
//
// These literals are the wire contract with the remote API and must track
// it exactly.
type Object string

const (
	// ObjectNone is used for payloads that carry no discriminator, such as
	// image generations and every Ollama response. Validation is skipped.
	ObjectNone Object = ""

	ObjectList                   Object = "list"
	ObjectPage                   Object = "page"
	ObjectBucket                 Object = "bucket"
	ObjectChatCompletion         Object = "chat.completion"
	ObjectChatCompletionDeletion Object = "chat.completion.deleted"
	ObjectEmbedding              Object = "embedding"
	ObjectModel                  Object = "model"
	ObjectFile                   Object = "file"
	ObjectOrganizationUser       Object = "organization.user"
	ObjectCostResult             Object = "organization.costs.result"
	ObjectFineTuningJob          Object = "fine_tuning.job"
	ObjectResponse               Object = "response"
)

// discriminator is the field every shape validator inspects.
const discriminator = "object"

// missing is reported as the actual value when the discriminator is absent
// or not a string.
const missing = "<missing>"

// Is reports whether doc's discriminator equals object.
func Is(doc Document, object Object) bool {
	r := doc.Get(discriminator)
	return r.Type == gjson.String && r.Str == string(object)
}

// Expect is the error-returning form of Is. It returns a SchemaMismatch
// naming both the expected and the actual discriminator.
func Expect(doc Document, object Object) error {
	if Is(doc, object) {
		return nil
	}

	actual := missing
	if r := doc.Get(discriminator); r.Type == gjson.String {
		actual = r.Str
	}
	return mismatch(object, actual)
}

// IsListOf reports whether doc is a list whose every element is of the
// given kind. An empty list is vacuously a list of anything.
func IsListOf(doc Document, element Object) bool {
	if !IsList(doc) {
		return false
	}

	elems, err := doc.Elements("data")
	if err != nil {
		return false
	}
	for _, e := range elems {
		if !Is(e, element) {
			return false
		}
	}
	return true
}

func IsList(doc Document) bool                   { return Is(doc, ObjectList) }
func IsPage(doc Document) bool                   { return Is(doc, ObjectPage) }
func IsBucket(doc Document) bool                 { return Is(doc, ObjectBucket) }
func IsChatCompletion(doc Document) bool         { return Is(doc, ObjectChatCompletion) }
func IsChatCompletionDeletion(doc Document) bool { return Is(doc, ObjectChatCompletionDeletion) }
func IsEmbedding(doc Document) bool              { return Is(doc, ObjectEmbedding) }
func IsModel(doc Document) bool                  { return Is(doc, ObjectModel) }
func IsFile(doc Document) bool                   { return Is(doc, ObjectFile) }
func IsOrganizationUser(doc Document) bool       { return Is(doc, ObjectOrganizationUser) }
func IsCostResult(doc Document) bool             { return Is(doc, ObjectCostResult) }
func IsFineTuningJob(doc Document) bool          { return Is(doc, ObjectFineTuningJob) }
func IsResponse(doc Document) bool               { return Is(doc, ObjectResponse) }
