package flowclient

import "errors"

// Sentinel errors for flow client operations.

// ErrFlowsURLMissing indicates the flow server URL is not configured.
var ErrFlowsURLMissing = errors.New("flow server URL is not configured")

// ErrFlowsURLParse indicates an error occurred while parsing the flow server URL.
var ErrFlowsURLParse = errors.New("failed to parse flow server URL")

// ErrRequestMarshal indicates an error occurred while marshaling the request body.
var ErrRequestMarshal = errors.New("failed to marshal request body")

// ErrRequestCreate indicates an error occurred while creating the HTTP request.
var ErrRequestCreate = errors.New("failed to create HTTP request")

// ErrRequestExecute indicates an error occurred while executing the HTTP request.
var ErrRequestExecute = errors.New("failed to execute HTTP request")

// ErrResponseDecode indicates an error occurred while decoding the response body.
var ErrResponseDecode = errors.New("failed to decode response body")

// ErrResponseMissingResult indicates a 200 response without a "result" member.
var ErrResponseMissingResult = errors.New("flow response has no result")

// ErrFlowError indicates the flow server returned a non-200 status code with a specific error message.
// The actual error message from the server is wrapped.
var ErrFlowError = errors.New("flow server returned an error")

// ErrFlowErrorUnparseable indicates the flow server returned a non-200 status code,
// but the error response body could not be parsed or was empty.
var ErrFlowErrorUnparseable = errors.New("flow server returned an unparseable error")
