package session

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultCollectionName is the collection holding session documents
const DefaultCollectionName = "sessions"

// MongoCollection implements Collection on a MongoDB collection
type MongoCollection struct {
	coll *mongo.Collection
}

// NewMongoCollection binds to the named collection of db.
// An empty name selects DefaultCollectionName.
func NewMongoCollection(db *mongo.Database, name string) *MongoCollection {
	if name == "" {
		name = DefaultCollectionName
	}
	return &MongoCollection{coll: db.Collection(name)}
}

// FindOne implements Collection
func (c *MongoCollection) FindOne(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := c.coll.FindOne(ctx, bson.D{{Key: FieldID, Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Upsert implements Collection
func (c *MongoCollection) Upsert(ctx context.Context, doc *Document) error {
	_, err := c.coll.ReplaceOne(ctx,
		bson.D{{Key: FieldID, Value: doc.ID}},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// DeleteByID implements Collection
func (c *MongoCollection) DeleteByID(ctx context.Context, id string) error {
	_, err := c.coll.DeleteOne(ctx, bson.D{{Key: FieldID, Value: id}})
	return err
}

// DeleteOlderThan implements Collection
func (c *MongoCollection) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, bson.D{
		{Key: FieldLastModified, Value: bson.D{{Key: "$lt", Value: cutoff}}},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FindIDs implements Collection
func (c *MongoCollection) FindIDs(ctx context.Context) ([]string, error) {
	cur, err := c.coll.Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{{Key: FieldID, Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// EnsureIndex implements Collection
func (c *MongoCollection) EnsureIndex(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: FieldLastModified, Value: 1}},
		Options: options.Index().SetName(FieldLastModified + "_1"),
	})
	return err
}
