// Package models defines the records persisted by the ingestion service.
package models

import "github.com/jaineet17/AWS-File-Processing-System/internal/common"

// IngestionRecord is the metadata entry written once per successful
// ingestion. Records are never updated.
type IngestionRecord struct {
	// ID is the generated correlation id and the primary key.
	ID string `json:"id" dynamodbav:"id"`
	// InputText is the caller's free text, stored verbatim.
	InputText string `json:"input_text" dynamodbav:"input_text"`
	// InputFilePath points at the stored object as "{bucket}/{id}.input".
	// The record does not own the object's lifecycle.
	InputFilePath string `json:"input_file_path" dynamodbav:"input_file_path"`
}

// StoredObject is the file content as written to the blob store.
type StoredObject struct {
	Key   string
	Bytes []byte
}

// ObjectKey returns the blob-store key for id.
func ObjectKey(id string) string {
	return id + common.InputFileSuffix
}

// ObjectPath returns the composite reference "{bucket}/{id}.input".
func ObjectPath(bucket, id string) string {
	return bucket + "/" + ObjectKey(id)
}

// NewIngestionRecord builds the record for id that references the object in bucket.
func NewIngestionRecord(bucket, id, text string) *IngestionRecord {
	return &IngestionRecord{
		ID:            id,
		InputText:     text,
		InputFilePath: ObjectPath(bucket, id),
	}
}
