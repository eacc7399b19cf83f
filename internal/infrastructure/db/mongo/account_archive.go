package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projecthub/account-entry/internal/core/domain"
)

const archiveCollection = "accounts"

// AccountArchive appends every created account to the accounts collection.
// It is a ports.SignupListener; write failures are logged, never surfaced,
// since the account slot has already been committed.
type AccountArchive struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

func NewAccountArchive(db *mongo.Database, log zerolog.Logger) *AccountArchive {
	return &AccountArchive{coll: db.Collection(archiveCollection), log: log}
}

type accountDocument struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Role       string    `bson:"role"`
	StudentID  string    `bson:"student_id,omitempty"`
	Department string    `bson:"department"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toAccountDocument(r domain.AccountRecord) accountDocument {
	return accountDocument{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Role:       string(r.Role),
		StudentID:  r.StudentID,
		Department: r.Department,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

// AccountCreated inserts record. Duplicate ids are ignored.
func (a *AccountArchive) AccountCreated(ctx context.Context, record domain.AccountRecord) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := a.coll.InsertOne(ctx, toAccountDocument(record)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return
		}
		a.log.Warn().Err(err).Str("account_id", record.ID).Msg("failed to archive account")
	}
}

// EnsureIndexes creates the lookup indexes of the accounts collection.
func (a *AccountArchive) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "department", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
	}

	_, err := a.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
