// Package responses holds the request body of the OpenAI responses API.
//
// Only the parts gptifier sends are modelled: a model, a text or message
// input, sampling settings and the reasoning and truncation knobs.
// Responses are decoded by the serialization package, not here.
//
// https://platform.openai.com/docs/api-reference/responses/create
package responses
