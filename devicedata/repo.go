package devicedata

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/settings"
)

const (
	CollectionName = "deviceData"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &repository{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type repository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "_userId", Value: 1},
				{Key: "type", Value: 1},
				{Key: "normalTime", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("DeviceDataByUserTypeTime"),
		},
	})
	return err
}

func (r *repository) ListBasals(ctx context.Context, userId string, start, end time.Time) ([]basal.Segment, error) {
	selector := bson.M{
		"_userId":    userId,
		"type":       bson.M{"$in": BasalTypes},
		"normalTime": bson.M{"$lt": end},
		"normalEnd":  bson.M{"$gt": start},
	}
	opts := options.Find().SetSort(bson.D{{Key: "normalTime", Value: 1}})

	documents, err := r.find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to list basals: %w", err)
	}

	segments := make([]basal.Segment, 0, len(documents))
	for _, document := range documents {
		segment, err := DecodeBasal(document)
		if err != nil {
			r.logger.Warnw("skipping invalid basal", "userId", userId, "error", err)
			continue
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

func (r *repository) ListSettings(ctx context.Context, userId string, end time.Time) ([]settings.Snapshot, error) {
	selector := bson.M{
		"_userId":    userId,
		"type":       bson.M{"$in": SettingsTypes},
		"normalTime": bson.M{"$lte": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "normalTime", Value: 1}})

	documents, err := r.find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to list settings: %w", err)
	}

	snapshots := make([]settings.Snapshot, 0, len(documents))
	for _, document := range documents {
		snapshot, err := DecodeSettings(document)
		if err != nil {
			r.logger.Warnw("skipping invalid settings", "userId", userId, "error", err)
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (r *repository) DataRange(ctx context.Context, userId string) (time.Time, time.Time, error) {
	selector := bson.M{
		"_userId": userId,
		"type":    bson.M{"$in": DiabetesTypes},
	}

	first, err := r.findOne(ctx, selector, options.FindOne().SetSort(bson.D{{Key: "normalTime", Value: 1}}))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := r.findOne(ctx, selector, options.FindOne().SetSort(bson.D{{Key: "normalTime", Value: -1}}))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return first, last, nil
}

func (r *repository) find(ctx context.Context, selector bson.M, opts *options.FindOptions) ([]map[string]interface{}, error) {
	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, err
	}

	var documents []bson.M
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(documents))
	for _, document := range documents {
		result = append(result, document)
	}
	return result, nil
}

func (r *repository) findOne(ctx context.Context, selector bson.M, opts *options.FindOneOptions) (time.Time, error) {
	var document struct {
		NormalTime time.Time `bson:"normalTime"`
	}
	err := r.collection.FindOne(ctx, selector, opts).Decode(&document)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, ErrNotFound
	} else if err != nil {
		return time.Time{}, fmt.Errorf("unable to get data range: %w", err)
	}
	return document.NormalTime.UTC(), nil
}
