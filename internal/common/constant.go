// Package common contains shared constants and the error taxonomy used across
// the ingestion service and the activation trigger.
package common

// Response messages returned to ingestion callers.
const (
	MessageProcessingStarted = "Processing started"
	MessageProcessingFailed  = "Error processing request"
)

// Validation failure descriptions. They are part of the public response
// contract and must not change.
const (
	InvalidBodyFormat  = "Invalid event body format"
	MissingInputFields = "Missing inputText or fileContent"
)

// InputFileSuffix is appended to the record id to form the object key.
const InputFileSuffix = ".input"
