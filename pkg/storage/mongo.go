package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

const favoritesCollection = "favorites"

func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w: %w", domain.ErrStorageUnavailable, err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w: %w", domain.ErrStorageUnavailable, err)
	}

	return client, nil
}

type mongoFavorite struct {
	ID        string    `bson:"_id"`
	EventID   string    `bson:"eventId"`
	Name      string    `bson:"name"`
	Venue     string    `bson:"venue"`
	Category  string    `bson:"category"`
	ImageURL  string    `bson:"imageUrl"`
	Date      string    `bson:"date"`
	Time      string    `bson:"time"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toMongoFavorite(f *domain.Favorite) mongoFavorite {
	return mongoFavorite{
		ID:        f.ID,
		EventID:   f.EventID,
		Name:      f.Name,
		Venue:     f.Venue,
		Category:  f.Category,
		ImageURL:  f.ImageURL,
		Date:      f.Date,
		Time:      f.Time,
		CreatedAt: f.CreatedAt,
	}
}

func (m mongoFavorite) favorite() domain.Favorite {
	return domain.Favorite{
		ID:        m.ID,
		EventID:   m.EventID,
		Name:      m.Name,
		Venue:     m.Venue,
		Category:  m.Category,
		ImageURL:  m.ImageURL,
		Date:      m.Date,
		Time:      m.Time,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type MongoFavoriteRepository struct {
	collection *mongo.Collection
}

// NewMongoFavoriteRepository ensures the unique eventId index exists before
// returning.
func NewMongoFavoriteRepository(ctx context.Context, db *mongo.Database) (*MongoFavoriteRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database is required")
	}

	collection := db.Collection(favoritesCollection)
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("eventId_unique"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("createdAt_asc"),
		},
	})
	if err != nil {
		return nil, unavailable("failed to create indexes", err)
	}

	return &MongoFavoriteRepository{collection: collection}, nil
}

func (r *MongoFavoriteRepository) FindByEventID(ctx context.Context, eventID string) (*domain.Favorite, error) {
	var doc mongoFavorite
	err := r.collection.FindOne(ctx, bson.M{"eventId": eventID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, unavailable("failed to get favorite", err)
	}

	fav := doc.favorite()
	return &fav, nil
}

func (r *MongoFavoriteRepository) Insert(ctx context.Context, favorite *domain.Favorite) error {
	if favorite == nil {
		return fmt.Errorf("favorite cannot be nil")
	}

	_, err := r.collection.InsertOne(ctx, toMongoFavorite(favorite))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateFavorite
	}
	if err != nil {
		return unavailable("failed to insert favorite", err)
	}

	return nil
}

func (r *MongoFavoriteRepository) DeleteByEventID(ctx context.Context, eventID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return false, unavailable("failed to delete favorite", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoFavoriteRepository) ListByCreatedAt(ctx context.Context) ([]domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unavailable("failed to list favorites", err)
	}
	defer cursor.Close(ctx)

	favorites := make([]domain.Favorite, 0)
	for cursor.Next(ctx) {
		var doc mongoFavorite
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode favorite: %w", err)
		}
		favorites = append(favorites, doc.favorite())
	}
	if err := cursor.Err(); err != nil {
		return nil, unavailable("failed to iterate favorites", err)
	}

	return favorites, nil
}
