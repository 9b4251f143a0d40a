package repository

import (
	"context"
	"errors"
	"fmt"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// bsonDate holds a date stored either as a string or as a BSON datetime.
// Datetimes are rendered as calendar dates.
type bsonDate string

func (d *bsonDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeString:
		*d = bsonDate(rv.StringValue())
	case bson.TypeDateTime:
		*d = bsonDate(primitive.DateTime(rv.DateTime()).Time().UTC().Format(models.BirthdayLayout))
	case bson.TypeNull, bson.TypeUndefined:
		*d = ""
	default:
		return fmt.Errorf("cannot decode BSON %s as a date", t)
	}
	return nil
}

type movieDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"Title"`
	Description string             `bson:"Description"`
	Genre       struct {
		Name        string `bson:"Name"`
		Description string `bson:"Description"`
	} `bson:"Genre"`
	Director struct {
		Name  string `bson:"Name"`
		Bio   string `bson:"Bio"`
		Birth bsonDate `bson:"Birth,omitempty"`
		Death bsonDate `bson:"Death,omitempty"`
	} `bson:"Director"`
	Actors    []string `bson:"Actors"`
	ImagePath string   `bson:"ImagePath"`
	Featured  bool     `bson:"Featured"`
}

func (d *movieDocument) toModel() models.Movie {
	actors := d.Actors
	if actors == nil {
		actors = []string{}
	}
	return models.Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Genre:       models.Genre{Name: d.Genre.Name, Description: d.Genre.Description},
		Director: models.Director{
			Name:  d.Director.Name,
			Bio:   d.Director.Bio,
			Birth: string(d.Director.Birth),
			Death: string(d.Director.Death),
		},
		Actors:    actors,
		ImagePath: d.ImagePath,
		Featured:  d.Featured,
	}
}

type mongoMovieRepository struct {
	col *mongo.Collection
}

// NewMongoMovieRepository creates a MongoDB-backed MovieStore.
func NewMongoMovieRepository(database *mongo.Database) MovieStore {
	return &mongoMovieRepository{col: database.Collection(db.MoviesCollection)}
}

// List returns every movie in the catalog.
func (r *mongoMovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.List")
	defer span.End()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Movie{}
	for cur.Next(ctx) {
		var doc movieDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode movie: %w", err)
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}

func (r *mongoMovieRepository) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.GetByTitle")
	defer span.End()

	return r.findOne(ctx, bson.M{"Title": title})
}

func (r *mongoMovieRepository) GetByGenreName(ctx context.Context, name string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.GetByGenreName")
	defer span.End()

	return r.findOne(ctx, bson.M{"Genre.Name": name})
}

func (r *mongoMovieRepository) GetByDirectorName(ctx context.Context, name string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.GetByDirectorName")
	defer span.End()

	return r.findOne(ctx, bson.M{"Director.Name": name})
}

// Insert adds movie to the catalog and fills in its generated id.
func (r *mongoMovieRepository) Insert(ctx context.Context, movie *models.Movie) error {
	ctx, span := tracer.Start(ctx, "MovieRepository.Insert")
	defer span.End()

	var doc movieDocument
	doc.Title = movie.Title
	doc.Description = movie.Description
	doc.Genre.Name = movie.Genre.Name
	doc.Genre.Description = movie.Genre.Description
	doc.Director.Name = movie.Director.Name
	doc.Director.Bio = movie.Director.Bio
	doc.Director.Birth = bsonDate(movie.Director.Birth)
	doc.Director.Death = bsonDate(movie.Director.Death)
	doc.Actors = movie.Actors
	doc.ImagePath = movie.ImagePath
	doc.Featured = movie.Featured

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		movie.ID = id.Hex()
	}
	return nil
}

// findOne returns the earliest inserted movie matching filter.
func (r *mongoMovieRepository) findOne(ctx context.Context, filter bson.M) (*models.Movie, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var doc movieDocument
	err := r.col.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}
	m := doc.toModel()
	return &m, nil
}
