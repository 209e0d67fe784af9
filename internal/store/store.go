// Package store is the document store boundary: collections of documents
// keyed by string id, single-document reads, and batched create/update
// writes. Firestore is the production backend; Postgres, SQLite and an
// in-memory map implement the same contract.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Document is one stored record.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Store is implemented by every backend.
type Store interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (Document, error)
	// List returns every document in a collection ordered by id.
	List(ctx context.Context, collection string) ([]Document, error)
	NewBatch() Batch
	// DeleteAll removes every document in a collection and returns how many
	// were removed.
	DeleteAll(ctx context.Context, collection string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Batch buffers writes until Commit. A batch is single use.
type Batch interface {
	// Create writes a full document, replacing anything stored at id.
	Create(collection, id string, fields map[string]interface{})
	// Update merges fields into an existing document.
	Update(collection, id string, fields map[string]interface{})
	Len() int
	Commit(ctx context.Context) error
}

// --------------------------------------------------------------------------
// Field values with backend-specific encodings
// --------------------------------------------------------------------------

type serverTimestamp struct{}

// ServerTimestamp is a field value the backend replaces with its own clock
// at commit time.
var ServerTimestamp interface{} = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v interface{}) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Ref is a back-reference to another document. Firestore stores it as a
// native document reference; the SQL backends store its path.
type Ref struct {
	Collection string
	ID         string
}

// Path is the slash-separated document path, e.g. "clubs/mentone".
func (r Ref) Path() string {
	return r.Collection + "/" + r.ID
}

// resolveFields returns a copy of fields with sentinels and refs replaced by
// their portable encodings.
func resolveFields(fields map[string]interface{}, now time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = resolveValue(v, now)
	}
	return out
}

func resolveValue(v interface{}, now time.Time) interface{} {
	switch val := v.(type) {
	case serverTimestamp:
		return now
	case Ref:
		return val.Path()
	case map[string]interface{}:
		return resolveFields(val, now)
	}
	return v
}

// Decode converts a document into a typed value through its JSON encoding.
// Every backend's field values survive that round trip.
func Decode(doc Document, v interface{}) error {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// DecodeAll decodes a list of documents into a slice of T.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := Decode(d, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
