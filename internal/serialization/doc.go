// Package serialization validates and unpacks the JSON payloads returned by
// the OpenAI API and by a local Ollama server.
//
// Every payload goes through the same steps:
//
//  1. [Parse] checks that the text is well-formed JSON.
//  2. [CheckError] looks for an error envelope, using the detector of the
//     backend that was called.
//  3. A shape validator ([Is], [Expect]) compares the "object" field
//     against the expected literal.
//  4. An [Unpacker] extracts the typed record.
//
// [Decode], [DecodeList] and [DecodeCosts] run the whole pipeline on
// response text. [Collect] runs the list steps on an opened document.
//
// Failures are always an [*Error] with a [ErrorKind] of MalformedResponse,
// RemoteError or SchemaMismatch. Nothing in this package retries, blocks or
// swallows an error.
package serialization
