package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreDeleteChunk stays under Firestore's 500 writes per batch.
const firestoreDeleteChunk = 400

// Firestore stores documents in Cloud Firestore collections.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore connects to a Firestore project. credentialsFile may be empty
// to use application default credentials.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Document{ID: snap.Ref.ID, Data: fromFirestore(snap.Data())}, nil
}

func (f *Firestore) List(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := f.client.Collection(collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, s := range snaps {
		docs = append(docs, Document{ID: s.Ref.ID, Data: fromFirestore(s.Data())})
	}
	return docs, nil
}

func (f *Firestore) DeleteAll(ctx context.Context, collection string) (int, error) {
	refs, err := f.client.Collection(collection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("list %s refs: %w", collection, err)
	}
	deleted := 0
	for start := 0; start < len(refs); start += firestoreDeleteChunk {
		end := min(start+firestoreDeleteChunk, len(refs))
		batch := f.client.Batch()
		for _, ref := range refs[start:end] {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", collection, err)
		}
		deleted += end - start
	}
	return deleted, nil
}

func (f *Firestore) Ping(ctx context.Context) error {
	_, err := f.client.Collection("settings").Limit(1).Documents(ctx).GetAll()
	return err
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) NewBatch() Batch {
	return &firestoreBatch{f: f, batch: f.client.Batch()}
}

type firestoreBatch struct {
	f     *Firestore
	batch *firestore.WriteBatch
	n     int
}

func (b *firestoreBatch) Create(collection, id string, fields map[string]interface{}) {
	b.batch.Set(b.f.client.Collection(collection).Doc(id), b.f.toFirestore(fields))
	b.n++
}

func (b *firestoreBatch) Update(collection, id string, fields map[string]interface{}) {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: b.f.toFirestoreValue(v)})
	}
	b.batch.Update(b.f.client.Collection(collection).Doc(id), updates)
	b.n++
}

func (b *firestoreBatch) Len() int { return b.n }

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if b.n == 0 {
		return nil
	}
	if _, err := b.batch.Commit(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.Join(ErrNotFound, err)
		}
		return fmt.Errorf("commit firestore batch: %w", err)
	}
	return nil
}

func (f *Firestore) toFirestore(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = f.toFirestoreValue(v)
	}
	return out
}

func (f *Firestore) toFirestoreValue(v interface{}) interface{} {
	switch val := v.(type) {
	case serverTimestamp:
		return firestore.ServerTimestamp
	case Ref:
		return f.client.Collection(val.Collection).Doc(val.ID)
	case map[string]interface{}:
		return f.toFirestore(val)
	}
	return v
}

// fromFirestore rewrites document references as "collection/id" paths so
// documents decode the same way as on the SQL backends.
func fromFirestore(data map[string]interface{}) map[string]interface{} {
	for k, v := range data {
		switch val := v.(type) {
		case *firestore.DocumentRef:
			if val != nil {
				data[k] = Ref{Collection: val.Parent.ID, ID: val.ID}.Path()
			}
		case map[string]interface{}:
			data[k] = fromFirestore(val)
		}
	}
	return data
}
