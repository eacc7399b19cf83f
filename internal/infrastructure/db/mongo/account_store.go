package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projecthub/account-entry/internal/core/domain"
)

// DefaultSlotCollection holds one document per storage key.
const DefaultSlotCollection = "account_slots"

// AccountStore keeps the account slot as a document keyed by the storage key.
type AccountStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAccountStore(db *mongo.Database, collection string) *AccountStore {
	if collection == "" {
		collection = DefaultSlotCollection
	}
	return &AccountStore{db: db, coll: db.Collection(collection)}
}

type slotDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Put upserts the slot for key.
func (s *AccountStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := slotDocument{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: mongo put %s: %w", domain.ErrStoreUnavailable, key, err)
	}
	return nil
}

// Get reads the slot for key.
func (s *AccountStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc slotDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: mongo get %s: %w", domain.ErrStoreUnavailable, key, err)
	}
	return []byte(doc.Value), nil
}

// Ping runs the server ping command against the database.
func (s *AccountStore) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
