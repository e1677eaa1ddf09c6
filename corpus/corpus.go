// Package corpus persists generation attempts for later replay: each
// document records the (seed, config digest) pair that produced a
// compile unit, the emitted source, and the attempt's outcome, so a
// crashing or merely interesting run found by an external harness can
// be looked up and regenerated byte-for-byte.
package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type (
	// Store persists and retrieves corpus entries.
	Store interface {
		// Put upserts entry, keyed by its content hash, so replaying the
		// same (config digest, seed) pair is idempotent.
		Put(ctx context.Context, entry *Entry) error

		// Get looks up the entry stored under the content hash of
		// (configDigest, seed).
		Get(ctx context.Context, configDigest string, seed []byte) (*Entry, bool, error)

		// ListOutcome returns up to limit entries recorded with the given
		// outcome, most recent first.
		ListOutcome(ctx context.Context, outcome Outcome, limit int) ([]*Entry, error)
	}

	// Entry is one persisted generation attempt.
	Entry struct {
		Hash         string
		ConfigDigest string
		Seed         []byte
		Source       string
		Outcome      Outcome
		RunID        string
		RecordedAt   time.Time
	}

	// Options configures the Mongo-backed store.
	Options struct {
		Client     *mongodriver.Client
		Database   string
		Collection string
		Timeout    time.Duration
	}

	store struct {
		coll    collection
		timeout time.Duration
	}

	entryDocument struct {
		Hash         string    `bson:"_id"`
		ConfigDigest string    `bson:"config_digest"`
		Seed         []byte    `bson:"seed"`
		Source       string    `bson:"source"`
		Outcome      string    `bson:"outcome"`
		RunID        string    `bson:"run_id"`
		RecordedAt   time.Time `bson:"recorded_at"`
	}
)

// Outcome classifies how the generation attempt recorded in an entry
// ended.
type Outcome string

const (
	OutcomeOK                Outcome = "ok"
	OutcomeEntropyExhausted  Outcome = "entropy_exhausted"
	OutcomeBudgetExceeded    Outcome = "budget_exceeded"
	OutcomeInvariantViolated Outcome = "invariant_violated"
	OutcomeRunnerCrash       Outcome = "runner_crash"
)

const (
	defaultCollection = "smithgen_corpus"
	defaultTimeout    = 5 * time.Second
)

// New returns a Store backed by the provided Mongo client.
func New(opts Options) (Store, error) {
	if opts.Client == nil {
		return nil, errors.New("corpus: mongo client is required")
	}
	if opts.Database == "" {
		return nil, errors.New("corpus: database name is required")
	}
	collection := opts.Collection
	if collection == "" {
		collection = defaultCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	mcoll := opts.Client.Database(opts.Database).Collection(collection)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	wrapper := mongoCollection{coll: mcoll}
	index := mongodriver.IndexModel{Keys: bson.D{{Key: "outcome", Value: 1}, {Key: "recorded_at", Value: -1}}}
	if _, err := wrapper.Indexes().CreateOne(ctx, index); err != nil {
		return nil, err
	}

	return newStoreWithCollection(wrapper, timeout)
}

func newStoreWithCollection(coll collection, timeout time.Duration) (*store, error) {
	if coll == nil {
		return nil, errors.New("corpus: collection is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &store{coll: coll, timeout: timeout}, nil
}

// Hash derives the content hash an Entry is keyed by: a seed replayed
// against the same config digest always produces the same hash, so
// Put is a pure upsert.
func Hash(configDigest string, seed []byte) string {
	h := sha256.New()
	h.Write([]byte(configDigest))
	h.Write([]byte{0})
	h.Write(seed)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *store) Put(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("corpus: entry is required")
	}
	if entry.ConfigDigest == "" {
		return errors.New("corpus: config digest is required")
	}
	if entry.Hash == "" {
		entry.Hash = Hash(entry.ConfigDigest, entry.Seed)
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc := entryDocument{
		Hash:         entry.Hash,
		ConfigDigest: entry.ConfigDigest,
		Seed:         append([]byte(nil), entry.Seed...),
		Source:       entry.Source,
		Outcome:      string(entry.Outcome),
		RunID:        entry.RunID,
		RecordedAt:   entry.RecordedAt,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Hash}, doc, options.Replace().SetUpsert(true))
	return err
}

type (
	collection interface {
		ReplaceOne(ctx context.Context, filter, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error)
		FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) singleResult
		Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (cursor, error)
		Indexes() indexView
	}

	singleResult interface {
		Decode(val any) error
	}

	indexView interface {
		CreateOne(ctx context.Context, model mongodriver.IndexModel, opts ...options.Lister[options.CreateIndexesOptions]) (string, error)
	}

	cursor interface {
		Next(ctx context.Context) bool
		Decode(val any) error
		Err() error
		Close(ctx context.Context) error
	}

	mongoCollection struct {
		coll *mongodriver.Collection
	}
)

func (c mongoCollection) ReplaceOne(ctx context.Context, filter, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error) {
	return c.coll.ReplaceOne(ctx, filter, replacement, opts...)
}

func (c mongoCollection) FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) singleResult {
	return c.coll.FindOne(ctx, filter, opts...)
}

func (c mongoCollection) Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (cursor, error) {
	return c.coll.Find(ctx, filter, opts...)
}

func (c mongoCollection) Indexes() indexView {
	return c.coll.Indexes()
}

func (s *store) Get(ctx context.Context, configDigest string, seed []byte) (*Entry, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc entryDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": Hash(configDigest, seed)}).Decode(&doc)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return documentToEntry(doc), true, nil
}

func (s *store) ListOutcome(ctx context.Context, outcome Outcome, limit int) (entries []*Entry, err error) {
	if limit <= 0 {
		return nil, errors.New("corpus: limit must be > 0")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.M{"outcome": string(outcome)}, options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cur.Close(ctx); err == nil && cerr != nil {
			err = cerr
		}
	}()

	for cur.Next(ctx) {
		var doc entryDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		entries = append(entries, documentToEntry(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func documentToEntry(doc entryDocument) *Entry {
	return &Entry{
		Hash:         doc.Hash,
		ConfigDigest: doc.ConfigDigest,
		Seed:         append([]byte(nil), doc.Seed...),
		Source:       doc.Source,
		Outcome:      Outcome(doc.Outcome),
		RunID:        doc.RunID,
		RecordedAt:   doc.RecordedAt,
	}
}
