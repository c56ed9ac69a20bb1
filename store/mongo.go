package store

import (
	"context"
	"fmt"

	"git.fiblab.net/general/common/v2/mongoutil"
	"git.fiblab.net/sim/autoownership/ownership"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MONGO_BATCH_SIZE = 1000

// MongoStore keeps one household per document.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	path   *Path
}

func OpenMongo(mongoURI string, path *Path) *MongoStore {
	client := mongoutil.NewClient(mongoURI)
	return &MongoStore{
		client: client,
		coll:   mongoutil.GetMongoColl(client, path),
		path:   path,
	}
}

func (s *MongoStore) Load(ctx context.Context) ([]*ownership.Household, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find households in %s: %w", s.path, err)
	}
	var households []*ownership.Household
	if err := cur.All(ctx, &households); err != nil {
		return nil, fmt.Errorf("decode households in %s: %w", s.path, err)
	}
	if err := checkUnique(households); err != nil {
		return nil, err
	}
	log.Infof("loaded %d households from %s", len(households), s.path)
	return households, nil
}

// Save replaces the document of every household, inserting missing ones.
func (s *MongoStore) Save(ctx context.Context, households []*ownership.Household) error {
	for _, batch := range lo.Chunk(households, MONGO_BATCH_SIZE) {
		models := lo.Map(batch, func(hh *ownership.Household, _ int) mongo.WriteModel {
			return mongo.NewReplaceOneModel().
				SetFilter(bson.M{"id": hh.ID}).
				SetReplacement(hh).
				SetUpsert(true)
		})
		if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("write households to %s: %w", s.path, err)
		}
	}
	log.Infof("saved %d households to %s", len(households), s.path)
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
