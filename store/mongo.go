package store

import (
	"context"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore persists conversation turns, one document per turn. It exists
// for deployments that want history to survive restarts; the memory store is
// the default.
type MongoStore struct {
	collection *mongo.Collection
	seq        atomic.Int64
}

type turnDoc struct {
	ConversationID string `bson:"conversation_id"`
	Seq            int64  `bson:"seq"`
	Turn           Turn   `bson:"turn"`
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	store := &MongoStore{collection: collection}
	store.seq.Store(time.Now().UnixNano())
	return store
}

func (s *MongoStore) Append(ctx context.Context, conversationID string, turn Turn) error {
	_, err := s.collection.InsertOne(ctx, turnDoc{
		ConversationID: conversationID,
		// seq keeps submission order even when timestamps collide
		Seq:  s.seq.Add(1),
		Turn: turn,
	})
	return err
}

func (s *MongoStore) History(ctx context.Context, conversationID string) ([]Turn, error) {
	cursor, err := s.collection.Find(ctx,
		bson.M{"conversation_id": conversationID},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	turns := make([]Turn, 0)
	for cursor.Next(ctx) {
		var doc turnDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		turns = append(turns, doc.Turn)
	}
	return turns, cursor.Err()
}

func (s *MongoStore) Clear(ctx context.Context, conversationID string) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"conversation_id": conversationID})
	return err
}
