package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/christa-jose1/student-migration-portal/internal/config"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// Collection names.
const (
	colChats   = "chats"
	colUsers   = "users"
	colPosts   = "posts"
	colCourses = "courses"
	colFAQs    = "faqs"
	colGuides  = "guides"
)

// Connect opens a Mongo client, verifies connectivity, and returns the
// configured database handle.
func Connect(ctx context.Context, cfg config.Mongo) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	l := log.L()
	l.Info().Str("database", cfg.Database).Msg("connected to mongodb")

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the repositories rely on. Safe to
// call on every startup; Mongo treats existing definitions as no-ops.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(colChats).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "participants", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(colUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
