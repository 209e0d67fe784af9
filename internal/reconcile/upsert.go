// Package reconcile writes documents to the store idempotently: a document
// that already exists is updated in place and keeps its created_at, a new
// one is created with both timestamps set by the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

// DefaultBatchSize stays under Firestore's 500 writes per batch.
const DefaultBatchSize = 400

// Transform rewrites a document's fields before they are written.
type Transform func(map[string]interface{}) map[string]interface{}

// UpsertResult counts what one Upsert call did.
type UpsertResult struct {
	Collection string
	Created    int
	Updated    int
	Skipped    int
	Batches    int
}

// Written is Created plus Updated.
func (r UpsertResult) Written() int {
	return r.Created + r.Updated
}

// Summary returns a one-line description for logs.
func (r UpsertResult) Summary() string {
	return fmt.Sprintf("%s: created=%d updated=%d skipped=%d batches=%d",
		r.Collection, r.Created, r.Updated, r.Skipped, r.Batches)
}

// Upserter batches creates and updates against a store.
type Upserter struct {
	store     store.Store
	batchSize int
	dryRun    bool
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New creates an Upserter. A batchSize below 1 uses DefaultBatchSize.
func New(s store.Store, batchSize int, dryRun bool, logger *slog.Logger) *Upserter {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Upserter{
		store:     s,
		batchSize: batchSize,
		dryRun:    dryRun,
		logger:    logger,
		tracer:    otel.Tracer("hockey-tracker/reconcile"),
	}
}

// DryRun reports whether writes are suppressed.
func (u *Upserter) DryRun() bool {
	return u.dryRun
}

// Upsert writes items to coll. Each id is looked up just before it is
// queued: present documents get an Update that preserves created_at,
// missing ones get a Create. Items sharing an id collapse to the last one.
// In dry-run mode nothing is read or written and the counts are zero.
func (u *Upserter) Upsert(ctx context.Context, coll string, items []model.Doc, transform Transform) (UpsertResult, error) {
	ctx, span := u.tracer.Start(ctx, "reconcile.upsert", trace.WithAttributes(
		attribute.String("collection", coll),
		attribute.Int("items", len(items)),
		attribute.Bool("dry_run", u.dryRun),
	))
	defer span.End()

	res := UpsertResult{Collection: coll}
	if u.dryRun {
		u.logger.Info("dry run: would upsert", "collection", coll, "items", len(items))
		return res, nil
	}

	items, res.Skipped = u.dedupe(coll, items)
	batch := u.store.NewBatch()
	for _, item := range items {
		id := item.DocID()
		fields := item.Fields()
		if transform != nil {
			fields = transform(fields)
		}
		delete(fields, "created_at")
		fields["updated_at"] = store.ServerTimestamp

		_, err := u.store.Get(ctx, coll, id)
		switch {
		case err == nil:
			batch.Update(coll, id, fields)
			res.Updated++
		case errors.Is(err, store.ErrNotFound):
			fields["created_at"] = store.ServerTimestamp
			batch.Create(coll, id, fields)
			res.Created++
		default:
			span.RecordError(err)
			return res, fmt.Errorf("read %s/%s: %w", coll, id, err)
		}

		if batch.Len() >= u.batchSize {
			if err := u.commit(ctx, batch, coll, &res); err != nil {
				return res, err
			}
			batch = u.store.NewBatch()
		}
	}
	if batch.Len() > 0 {
		if err := u.commit(ctx, batch, coll, &res); err != nil {
			return res, err
		}
	}

	span.SetAttributes(
		attribute.Int("created", res.Created),
		attribute.Int("updated", res.Updated),
		attribute.Int("batches", res.Batches),
	)
	u.logger.Info("upserted", "collection", coll,
		"created", res.Created, "updated", res.Updated, "skipped", res.Skipped, "batches", res.Batches)
	return res, nil
}

func (u *Upserter) commit(ctx context.Context, batch store.Batch, coll string, res *UpsertResult) error {
	n := batch.Len()
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit %d writes to %s: %w", n, coll, err)
	}
	res.Batches++
	u.logger.Debug("batch committed", "collection", coll, "writes", n, "batch", res.Batches)
	return nil
}

// dedupe drops items without an id and collapses repeated ids to the last
// occurrence, keeping first-seen order. The returned count is the number
// of items without an id.
func (u *Upserter) dedupe(coll string, items []model.Doc) ([]model.Doc, int) {
	skipped := 0
	index := make(map[string]int, len(items))
	out := make([]model.Doc, 0, len(items))
	for _, item := range items {
		id := item.DocID()
		if id == "" {
			skipped++
			u.logger.Warn("skipping document without id", "collection", coll)
			continue
		}
		if i, ok := index[id]; ok {
			out[i] = item
			continue
		}
		index[id] = len(out)
		out = append(out, item)
	}
	return out, skipped
}

// ---------------------------------------------------------------------------
// Single documents
// ---------------------------------------------------------------------------

// GetOrCreate returns the stored document for doc's id, creating it only
// when absent. An existing document is never overwritten. created reports
// whether a write happened. In dry-run mode a missing document is reported
// as created without being written.
func (u *Upserter) GetOrCreate(ctx context.Context, coll string, doc model.Doc) (stored store.Document, created bool, err error) {
	id := doc.DocID()
	if id == "" {
		return store.Document{}, false, fmt.Errorf("get or create in %s: empty id", coll)
	}
	if u.dryRun {
		return store.Document{ID: id, Data: doc.Fields()}, true, nil
	}

	existing, err := u.store.Get(ctx, coll, id)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.Document{}, false, fmt.Errorf("read %s/%s: %w", coll, id, err)
	}

	fields := doc.Fields()
	fields["created_at"] = store.ServerTimestamp
	fields["updated_at"] = store.ServerTimestamp
	batch := u.store.NewBatch()
	batch.Create(coll, id, fields)
	if err := batch.Commit(ctx); err != nil {
		return store.Document{}, false, fmt.Errorf("create %s/%s: %w", coll, id, err)
	}
	u.logger.Info("created document", "collection", coll, "id", id)

	stored, err = u.store.Get(ctx, coll, id)
	if err != nil {
		return store.Document{}, true, fmt.Errorf("reread %s/%s: %w", coll, id, err)
	}
	return stored, true, nil
}

// Purge deletes every document in the given collections and returns the
// number deleted per collection. In dry-run mode it only logs.
func (u *Upserter) Purge(ctx context.Context, collections []string) (map[string]int, error) {
	deleted := make(map[string]int, len(collections))
	for _, coll := range collections {
		if u.dryRun {
			u.logger.Info("dry run: would purge", "collection", coll)
			continue
		}
		n, err := u.store.DeleteAll(ctx, coll)
		if err != nil {
			return deleted, fmt.Errorf("purge %s: %w", coll, err)
		}
		deleted[coll] = n
		u.logger.Info("purged collection", "collection", coll, "deleted", n)
	}
	return deleted, nil
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// StripRefs removes back-reference fields (*_ref and *_refs). Used for
// exports, which cannot carry store handles.
func StripRefs(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if strings.HasSuffix(k, "_ref") || strings.HasSuffix(k, "_refs") {
			continue
		}
		out[k] = v
	}
	return out
}

// Set returns a transform that overwrites one field.
func Set(key string, value interface{}) Transform {
	return func(fields map[string]interface{}) map[string]interface{} {
		fields[key] = value
		return fields
	}
}
