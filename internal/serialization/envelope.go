package serialization

import (
	"github.com/tidwall/gjson"
)

// Backend identifies which server produced a payload. The two backends use
// different error envelopes, so the caller selects the detector explicitly
// based on where the request was sent.
type Backend int

const (
	// BackendOpenAI envelopes look like {"error": {"message": "...", "type": "...", "code": "..."}}.
	BackendOpenAI Backend = iota

	// BackendOllama envelopes look like {"error": "..."}.
	BackendOllama
)

func (b Backend) String() string {
	switch b {
	case BackendOpenAI:
		return "openai"
	case BackendOllama:
		return "ollama"
	default:
		return "unknown"
	}
}

// CheckError returns a RemoteError if doc carries a non-empty error envelope
// for the given backend. An "error" field that is absent or holds a zero
// value (null, false, 0, "", {} or []) is not an error: some endpoints
// include "error": {} or "error": null in successful responses.
func CheckError(doc Document, backend Backend) error {
	e := doc.Get("error")
	if isEmptyValue(e) {
		return nil
	}

	switch backend {
	case BackendOllama:
		if e.Type == gjson.String {
			return &Error{Kind: RemoteError, Message: e.Str}
		}
	default:
		if msg := e.Get("message"); e.IsObject() && msg.Type == gjson.String && msg.Str != "" {
			return &Error{Kind: RemoteError, Message: msg.Str}
		}
	}

	// Non-empty but not in the expected shape: surface it untouched.
	return &Error{Kind: RemoteError, Message: e.Raw}
}

func isEmptyValue(r gjson.Result) bool {
	if !r.Exists() {
		return true
	}
	switch r.Type {
	case gjson.Null:
		return true
	case gjson.False:
		return true
	case gjson.Number:
		return r.Num == 0
	case gjson.String:
		return r.Str == ""
	case gjson.JSON:
		empty := true
		r.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return empty
	}
	return false
}
