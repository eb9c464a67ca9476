package certification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wonny/quotecert/internal/contracts"
)

const mongoCollection = "certifications"

// mongoRecord is the BSON shape of a record
type mongoRecord struct {
	ID         string    `bson:"_id"`
	Grade      string    `bson:"grade"`
	FinalScore float64   `bson:"final_score"`
	IssuedAt   time.Time `bson:"issued_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
	Token      string    `bson:"token"`
}

func (m mongoRecord) toRecord() contracts.CertificationRecord {
	return contracts.CertificationRecord{
		ID:         m.ID,
		Grade:      contracts.Grade(m.Grade),
		FinalScore: m.FinalScore,
		IssuedAt:   m.IssuedAt.UTC(),
		ExpiresAt:  m.ExpiresAt.UTC(),
		Token:      m.Token,
	}
}

// MongoStore persists records in a MongoDB collection
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore binds the store to database.certifications
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		collection: client.Database(database).Collection(mongoCollection),
	}
}

// ConnectMongo opens and pings a MongoDB client
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the expires_at index used by ListExpiring
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "expires_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create expires_at index: %w", err)
	}
	return nil
}

var _ contracts.CertificationRepository = (*MongoStore)(nil)

// Save inserts a record; a duplicate _id is rejected
func (s *MongoStore) Save(ctx context.Context, rec *contracts.CertificationRecord) error {
	doc := mongoRecord{
		ID:         rec.ID,
		Grade:      string(rec.Grade),
		FinalScore: rec.FinalScore,
		IssuedAt:   rec.IssuedAt,
		ExpiresAt:  rec.ExpiresAt,
		Token:      rec.Token,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("certification %s already exists", rec.ID)
		}
		return fmt.Errorf("%w: failed to save certification: %v", contracts.ErrStoreUnavailable, err)
	}
	return nil
}

// Get retrieves a record by id
func (s *MongoStore) Get(ctx context.Context, id string) (*contracts.CertificationRecord, error) {
	var doc mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("certification %s: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get certification: %v", contracts.ErrStoreUnavailable, err)
	}

	rec := doc.toRecord()
	return &rec, nil
}

// ListExpiring returns records with from <= expires_at < to, soonest first
func (s *MongoStore) ListExpiring(ctx context.Context, from, to time.Time) ([]contracts.CertificationRecord, error) {
	filter := bson.M{"expires_at": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query expiring certifications: %v", contracts.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []mongoRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode certifications: %w", err)
	}

	records := make([]contracts.CertificationRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.toRecord())
	}
	return records, nil
}
