package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const entryCollection = "lb_entry"

// MongoEntryLog is the production EntryLog backed by a MongoDB collection.
type MongoEntryLog struct {
	coll *mongo.Collection
}

// NewMongoEntryLog returns an entry log over the lb_entry collection of db.
func NewMongoEntryLog(db *mongo.Database) *MongoEntryLog {
	return &MongoEntryLog{coll: db.Collection(entryCollection)}
}

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	slog.Info("Connecting to MongoDB", "uri", uri)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("MongoDB client connected successfully")
	return client, nil
}

// EnsureIndexes creates the compound index the range queries depend on.
func (l *MongoEntryLog) EnsureIndexes(ctx context.Context) error {
	_, err := l.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "scoreType", Value: 1},
			{Key: "timestamp", Value: 1},
			{Key: "playerId", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create lb_entry index: %w", err)
	}
	return nil
}

// filterDoc translates a RangeFilter into a Mongo query document. Zero range
// bounds are unbounded and produce no timestamp constraint.
func filterDoc(f RangeFilter) bson.M {
	query := bson.M{
		"scoreType": f.ScoreType.String(),
	}
	timestamp := bson.M{}
	if !f.Range.Start.IsZero() {
		timestamp["$gte"] = f.Range.Start
	}
	if !f.Range.End.IsZero() {
		timestamp["$lt"] = f.Range.End
	}
	if len(timestamp) > 0 {
		query["timestamp"] = timestamp
	}
	if f.PlayerID != "" {
		query["playerId"] = f.PlayerID
	}
	return query
}

// DeleteRange removes every entry matching the filter.
func (l *MongoEntryLog) DeleteRange(ctx context.Context, f RangeFilter) error {
	if _, err := l.coll.DeleteMany(ctx, filterDoc(f)); err != nil {
		return fmt.Errorf("delete lb entries: %w", err)
	}
	return nil
}

// Insert appends a new entry to the log.
func (l *MongoEntryLog) Insert(ctx context.Context, e Entry) error {
	if _, err := l.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert lb entry: %w", err)
	}
	return nil
}

// FindRange streams the entries matching the filter, batched at BatchSize
// records per round trip.
func (l *MongoEntryLog) FindRange(ctx context.Context, f RangeFilter) (Cursor, error) {
	cur, err := l.coll.Find(ctx, filterDoc(f), options.Find().SetBatchSize(BatchSize))
	if err != nil {
		return nil, fmt.Errorf("find lb entries: %w", err)
	}
	return &mongoCursor{cur: cur}, nil
}

type mongoCursor struct {
	cur     *mongo.Cursor
	current Entry
	err     error
}

func (c *mongoCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if !c.cur.Next(ctx) {
		return false
	}
	var e Entry
	if err := c.cur.Decode(&e); err != nil {
		c.err = err
		return false
	}
	c.current = e
	return true
}

func (c *mongoCursor) Entry() Entry {
	return c.current
}

func (c *mongoCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.cur.Err()
}

func (c *mongoCursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}
