package userinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// MongoUserRepository keeps each user as one document with an embedded analyses array
type MongoUserRepository struct {
	coll *mongo.Collection
}

var _ user.Repository = (*MongoUserRepository)(nil)

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// ConnectMongo dials and pings the server
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique email index
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	return err
}

func (r *MongoUserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Analyses == nil {
		u.Analyses = []analysis.Analysis{}
	}
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return user.ErrEmailAlreadyExists().WithDetail("email", u.Email.String())
	}
	return err
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var u user.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound()
	}
	if err != nil {
		return nil, err
	}
	if u.Analyses == nil {
		u.Analyses = []analysis.Analysis{}
	}
	return &u, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email.String()})
}

func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email kernel.Email) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email.String()}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AppendAnalysis uses $push so concurrent appends never overwrite each other
func (r *MongoUserRepository) AppendAnalysis(ctx context.Context, userID kernel.UserID, a *analysis.Analysis) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{
			"$push": bson.M{"analyses": a},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound().WithDetail("user_id", userID.String())
	}
	return nil
}

func (r *MongoUserRepository) ListAnalyses(ctx context.Context, userID kernel.UserID) ([]analysis.Analysis, error) {
	var doc struct {
		Analyses []analysis.Analysis `bson:"analyses"`
	}
	err := r.coll.FindOne(ctx,
		bson.M{"_id": userID.String()},
		options.FindOne().SetProjection(bson.M{"analyses": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound().WithDetail("user_id", userID.String())
	}
	if err != nil {
		return nil, err
	}
	if doc.Analyses == nil {
		return []analysis.Analysis{}, nil
	}
	return doc.Analyses, nil
}
