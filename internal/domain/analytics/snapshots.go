package analytics

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotCollection = "analytics_snapshots"

// Collections is satisfied by *docstore.Client.
type Collections interface {
	Collection(name string) *mongo.Collection
}

// SnapshotStore archives report snapshots in MongoDB.
type SnapshotStore struct {
	coll *mongo.Collection
}

// NewSnapshotStore returns nil when docs is nil so the archive stays disabled.
func NewSnapshotStore(docs Collections) *SnapshotStore {
	if docs == nil {
		return nil
	}
	return &SnapshotStore{coll: docs.Collection(snapshotCollection)}
}

func (s *SnapshotStore) Save(ctx context.Context, snap Snapshot) (Snapshot, error) {
	res, err := s.coll.InsertOne(ctx, snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		snap.ID = oid.Hex()
	}
	return snap, nil
}

// List returns a tenant's snapshots newest first.
func (s *SnapshotStore) List(ctx context.Context, tenantID string, limit, offset int) ([]Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := s.coll.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find snapshots: %w", err)
	}
	defer cur.Close(ctx)

	out := []Snapshot{}
	for cur.Next(ctx) {
		var raw struct {
			ID       primitive.ObjectID `bson:"_id"`
			Snapshot `bson:",inline"`
		}
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		snap := raw.Snapshot
		snap.ID = raw.ID.Hex()
		out = append(out, snap)
	}
	return out, cur.Err()
}
