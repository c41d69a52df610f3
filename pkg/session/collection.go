package session

import "context"

// Persisted field names. One document per session, no other schema.
const (
	FieldID           = "_id"
	FieldData         = "data"
	FieldLastModified = "lastmodified"
)

// Document is the durable representation of a session
type Document struct {
	ID           string `bson:"_id"`
	Data         []byte `bson:"data"`
	LastModified int64  `bson:"lastmodified"` // epoch millis of the last save
}

// Collection is the set of document store primitives the Store issues.
// Implementations return ErrSessionNotFound from FindOne on a miss and
// raw driver errors otherwise; the Store classifies them.
type Collection interface {
	// FindOne fetches the document by id
	FindOne(ctx context.Context, id string) (*Document, error)

	// Upsert inserts or replaces the document keyed by doc.ID
	Upsert(ctx context.Context, doc *Document) error

	// DeleteByID removes the document if present
	DeleteByID(ctx context.Context, id string) error

	// DeleteOlderThan removes documents with lastmodified strictly before cutoff
	DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error)

	// FindIDs returns all ids, projecting only the id field
	FindIDs(ctx context.Context) ([]string, error)

	// EnsureIndex creates the ascending lastmodified index used by the sweep
	EnsureIndex(ctx context.Context) error
}
