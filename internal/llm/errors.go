package llm

import "errors"

// Sentinel errors for LLM client and parsing operations.

// ErrLLMClientNil indicates the LLM client (e.g., OpenAI client) was nil when used.
var ErrLLMClientNil = errors.New("LLM client cannot be nil")

// ErrLLMPromptEmpty indicates the rendered prompt was empty.
var ErrLLMPromptEmpty = errors.New("prompt cannot be empty")

// ErrLLMPromptTemplate indicates a prompt template failed to parse or execute.
var ErrLLMPromptTemplate = errors.New("failed to render prompt template")

// ErrLLMCompletion indicates an error occurred during the LLM API call (e.g., network error, API error).
// The underlying error from the LLM SDK should be wrapped.
var ErrLLMCompletion = errors.New("failed to create LLM completion")

// ErrLLMEmptyResponse indicates the LLM returned a response with no usable content (e.g., no choices).
var ErrLLMEmptyResponse = errors.New("received an empty response from LLM")

// ErrLLMResponseJSONFind indicates the expected JSON object could not be found in the LLM response.
var ErrLLMResponseJSONFind = errors.New("failed to find JSON object in LLM response")

// ErrLLMResponseJSONUnmarshal indicates an error occurred while unmarshaling the JSON from the LLM response.
// The underlying JSON error should be wrapped.
var ErrLLMResponseJSONUnmarshal = errors.New("failed to unmarshal LLM response JSON")

// ErrLLMResponseMissingField indicates a required field was missing from the parsed LLM response JSON.
var ErrLLMResponseMissingField = errors.New("parsed LLM response is missing a required field")

// ErrLLMResponseInvalid indicates the parsed response failed schema validation
// (e.g., a recommended game with an out-of-range score). The validation error is wrapped.
var ErrLLMResponseInvalid = errors.New("LLM response failed schema validation")
