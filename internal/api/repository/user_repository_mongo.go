package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"Username"`
	Password       string             `bson:"Password"`
	Email          string             `bson:"Email"`
	Birthday       *time.Time         `bson:"Birthday,omitempty"`
	FavoriteMovies []string           `bson:"FavoriteMovies"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		PasswordHash:   d.Password,
		Email:          d.Email,
		Birthday:       d.Birthday,
		FavoriteMovies: d.FavoriteMovies,
	}
}

type mongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a MongoDB-backed UserRepository.
func NewMongoUserRepository(database *mongo.Database) UserRepository {
	return &mongoUserRepository{col: database.Collection(db.UsersCollection)}
}

// Create inserts user and fills in its generated id.
func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	favorites := user.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	doc := userDocument{
		Username:       user.Username,
		Password:       user.PasswordHash,
		Email:          user.Email,
		Birthday:       user.Birthday,
		FavoriteMovies: favorites,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id.Hex()
	}
	user.FavoriteMovies = favorites
	return nil
}

// GetByUsername retrieves a user by username.
func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByUsername")
	defer span.End()

	var doc userDocument
	err := r.col.FindOne(ctx, bson.M{"Username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return doc.toModel(), nil
}

// Update replaces the profile fields of username. A nil birthday keeps the stored one.
func (r *mongoUserRepository) Update(ctx context.Context, username string, update models.UserUpdate) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	set := bson.M{
		"Username": update.Username,
		"Password": update.PasswordHash,
		"Email":    update.Email,
	}
	if update.Birthday != nil {
		set["Birthday"] = update.Birthday
	}

	user, err := r.findOneAndUpdate(ctx, username, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes username and reports whether it existed.
func (r *mongoUserRepository) Delete(ctx context.Context, username string) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Delete")
	defer span.End()

	res, err := r.col.DeleteOne(ctx, bson.M{"Username": username})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// AddFavorite adds movieID to the user's favorites if it is not already there.
func (r *mongoUserRepository) AddFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.AddFavorite")
	defer span.End()

	user, err := r.findOneAndUpdate(ctx, username, bson.M{"$addToSet": bson.M{"FavoriteMovies": movieID}})
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite movie: %w", err)
	}
	return user, nil
}

// RemoveFavorite removes movieID from the user's favorites. Absent ids are ignored.
func (r *mongoUserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.RemoveFavorite")
	defer span.End()

	user, err := r.findOneAndUpdate(ctx, username, bson.M{"$pull": bson.M{"FavoriteMovies": movieID}})
	if err != nil {
		return nil, fmt.Errorf("failed to remove favorite movie: %w", err)
	}
	return user, nil
}

func (r *mongoUserRepository) findOneAndUpdate(ctx context.Context, username string, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"Username": username}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}
