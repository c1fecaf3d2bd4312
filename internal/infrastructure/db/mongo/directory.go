package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pharmacy/storefront/internal/core/domain"
)

// Collection names for the two principal directories.
const (
	AdminsCollection = "admins"
	UsersCollection  = "users"
)

// Directory stores principals in a single collection with a unique email index.
type Directory struct {
	coll *mongo.Collection
}

func NewDirectory(coll *mongo.Collection) *Directory {
	return &Directory{coll: coll}
}

type mongoPrincipal struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt int64              `bson:"created_at"`
}

// EnsureIndexes creates the unique email index. It is a no-op when the index
// already exists.
func (d *Directory) EnsureIndexes(ctx context.Context) error {
	_, err := d.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create %s email index: %w", d.coll.Name(), err)
	}
	return nil
}

func (d *Directory) Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	doc := mongoPrincipal{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Email:     p.Email,
		Password:  p.Credential,
		CreatedAt: p.CreatedAt.Unix(),
	}

	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("insert %s: %w", d.coll.Name(), err)
	}

	return doc.toDomain(), nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	var mp mongoPrincipal
	if err := d.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", d.coll.Name(), err)
	}
	return mp.toDomain(), nil
}

func (mp mongoPrincipal) toDomain() *domain.Principal {
	return &domain.Principal{
		ID:         mp.ID.Hex(),
		Name:       mp.Name,
		Email:      mp.Email,
		Credential: mp.Password,
		CreatedAt:  unixToTime(mp.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
