package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/raushankrgupta/vape-catalog-scraper/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const scrapeRunsCollection = "scrape_runs"

var Client *mongo.Client

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	Client = client
	log.Info("Connected to MongoDB!")
	return nil
}

// DisconnectMongo closes the connection opened by ConnectMongo
func DisconnectMongo() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.WithError(err).Warn("Error disconnecting from MongoDB")
	}
}

// GetCollection returns a handle to a MongoDB collection
func GetCollection(databaseName, collectionName string) *mongo.Collection {
	if Client == nil {
		log.Fatal("MongoDB client is not initialized")
	}
	return Client.Database(databaseName).Collection(collectionName)
}

// RunStore persists scrape runs
type RunStore struct {
	collection *mongo.Collection
}

// NewRunStore returns a store backed by the scrape_runs collection of dbName
func NewRunStore(dbName string) *RunStore {
	return &RunStore{collection: GetCollection(dbName, scrapeRunsCollection)}
}

// RecordRun inserts run, assigning its ID and creation time when unset
func (s *RunStore) RecordRun(ctx context.Context, run *models.ScrapeRun) error {
	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := s.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to save scrape run: %w", err)
	}
	return nil
}

// ListRuns returns one page of runs, newest first, together with the total count
func (s *RunStore) ListRuns(ctx context.Context, page, limit int) ([]models.ScrapeRun, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count scrape runs: %w", err)
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	findOptions.SetSkip(int64((page - 1) * limit))
	findOptions.SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch scrape runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []models.ScrapeRun
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode scrape runs: %w", err)
	}
	return runs, total, nil
}
