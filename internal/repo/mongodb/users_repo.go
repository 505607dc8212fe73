package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/heartspace/internal/domain/user"
	"github.com/geocoder89/heartspace/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password,omitempty"`
	Gender     string             `bson:"gender,omitempty"`
	DOB        *time.Time         `bson:"dob,omitempty"`
	Phone      string             `bson:"phone,omitempty"`
	Location   string             `bson:"location,omitempty"`
	ProfilePic string             `bson:"profilePic"`
}

func (d userDoc) toDomain() user.User {
	return user.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Gender:       d.Gender,
		DOB:          d.DOB,
		Phone:        d.Phone,
		Location:     d.Location,
		ProfilePic:   d.ProfilePic,
	}
}

// reads that leave the credential store never carry the hash
var withoutPassword = bson.D{{Key: "password", Value: 0}}

type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewUsersRepo(db *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		coll: db.Collection(usersCollection),
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	doc := userDoc{
		ID:         primitive.NewObjectID(),
		Name:       u.Name,
		Email:      u.Email,
		Password:   u.PasswordHash,
		Gender:     u.Gender,
		DOB:        u.DOB,
		Phone:      u.Phone,
		Location:   u.Location,
		ProfilePic: u.ProfilePic,
	}

	err := r.observe("users.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return doc.toDomain(), nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var doc userDoc

	err := r.observe("users.get_by_email", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return doc.toDomain(), nil
}

// GetByID treats ids that are not valid ObjectIDs as unknown users.
func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	var doc userDoc

	err = r.observe("users.get_by_id", func() error {
		return r.coll.FindOne(ctx,
			bson.D{{Key: "_id", Value: oid}},
			options.FindOne().SetProjection(withoutPassword),
		).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return doc.toDomain(), nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var docs []userDoc

	err := r.observe("users.list", func() error {
		cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetProjection(withoutPassword))
		if err != nil {
			return err
		}
		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, err
	}

	out := make([]user.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}

	return out, nil
}
