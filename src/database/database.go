package database

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	CoursesCollection    = "courses"
	CategoriesCollection = "categories"
	UsersCollection      = "users"
)

var (
	client     *mongo.Client
	db         *mongo.Database
	once       sync.Once
	connectErr error

	CourseCollection   *mongo.Collection
	CategoryCollection *mongo.Collection
	UserCollection     *mongo.Collection
)

// ConnectMongoDB connects once and binds the collection handles.
func ConnectMongoDB(ctx context.Context, uri, dbName string, log *zap.Logger) (*mongo.Database, error) {
	once.Do(func() {
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, connectErr = mongo.Connect(cctx, options.Client().ApplyURI(uri))
		if connectErr != nil {
			connectErr = errors.Wrap(connectErr, "connect mongodb")
			return
		}
		if connectErr = client.Ping(cctx, readpref.Primary()); connectErr != nil {
			connectErr = errors.Wrap(connectErr, "ping mongodb")
			return
		}

		db = client.Database(dbName)
		bindCollections(db)
		log.Info("mongodb connected", zap.String("database", dbName))
	})
	return db, connectErr
}

func bindCollections(d *mongo.Database) {
	CourseCollection = d.Collection(CoursesCollection)
	CategoryCollection = d.Collection(CategoriesCollection)
	UserCollection = d.Collection(UsersCollection)
}

// DisconnectMongoDB closes the shared client, if any.
func DisconnectMongoDB(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
