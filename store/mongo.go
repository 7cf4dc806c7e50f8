package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/jutlandia/jutlandia-site-go/models"
)

// MongoEventStore keeps events in an "events" collection. Integer ids come
// from a findOneAndUpdate $inc on a "counters" document, so creation stays
// a single atomic write per collection.
type MongoEventStore struct {
	db *mongo.Database
}

func NewMongoEventStore(client *mongo.Client, dbName string) *MongoEventStore {
	return &MongoEventStore{db: client.Database(dbName)}
}

func (s *MongoEventStore) events() *mongo.Collection {
	return s.db.Collection("events")
}

// nextID increments and returns the events counter, creating it on first
// use.
func (s *MongoEventStore) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": "events"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (s *MongoEventStore) list(ctx context.Context, filter bson.M) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := s.events().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *MongoEventStore) ListUpcoming(ctx context.Context) ([]models.Event, error) {
	return s.list(ctx, bson.M{"over": false})
}

func (s *MongoEventStore) ListFinished(ctx context.Context) ([]models.Event, error) {
	return s.list(ctx, bson.M{"over": true})
}

func (s *MongoEventStore) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.list(ctx, bson.M{})
}

func (s *MongoEventStore) Get(ctx context.Context, id int64) (models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ev models.Event
	err := s.events().FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

func (s *MongoEventStore) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := s.nextID(ctx)
	if err != nil {
		return models.Event{}, err
	}
	ev.ID = id

	if _, err := s.events().InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

func (s *MongoEventStore) Update(ctx context.Context, ev models.Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":     ev.Name,
		"link":     ev.Link,
		"date":     ev.Date,
		"location": ev.Location,
		"over":     ev.Over,
	}}
	res, err := s.events().UpdateOne(ctx, bson.M{"_id": ev.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.events().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
