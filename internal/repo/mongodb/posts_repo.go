package mongodb

import (
	"context"
	"time"

	"github.com/geocoder89/heartspace/internal/domain/post"
	"github.com/geocoder89/heartspace/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"userId"`
	Name       string             `bson:"name"`
	ProfilePic string             `bson:"profilePic"`
	Content    string             `bson:"content"`
	Likes      int                `bson:"likes"`
	Comments   []string           `bson:"comments"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d postDoc) toDomain() post.Post {
	comments := d.Comments
	if comments == nil {
		comments = []string{}
	}

	return post.Post{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		Name:       d.Name,
		ProfilePic: d.ProfilePic,
		Content:    d.Content,
		Likes:      d.Likes,
		Comments:   comments,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type PostsRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewPostsRepo(db *mongo.Database, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{
		coll: db.Collection(postsCollection),
		prom: prom,
	}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *PostsRepo) Create(ctx context.Context, p post.Post) (post.Post, error) {
	comments := p.Comments
	if comments == nil {
		comments = []string{}
	}

	doc := postDoc{
		ID:         primitive.NewObjectID(),
		UserID:     p.UserID,
		Name:       p.Name,
		ProfilePic: p.ProfilePic,
		Content:    p.Content,
		Likes:      p.Likes,
		Comments:   comments,
		// mongo stores millisecond precision; truncate so the returned post
		// matches what a later read yields
		CreatedAt: p.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt: p.UpdatedAt.UTC().Truncate(time.Millisecond),
	}

	err := r.observe("posts.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		return post.Post{}, err
	}

	return doc.toDomain(), nil
}

func (r *PostsRepo) List(ctx context.Context) ([]post.Post, error) {
	return r.find(ctx, "posts.list", bson.D{})
}

func (r *PostsRepo) ListByUser(ctx context.Context, userID string) ([]post.Post, error) {
	return r.find(ctx, "posts.list_by_user", bson.D{{Key: "userId", Value: userID}})
}

func (r *PostsRepo) find(ctx context.Context, op string, filter bson.D) ([]post.Post, error) {
	var docs []postDoc

	err := r.observe(op, func() error {
		cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
		if err != nil {
			return err
		}
		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, err
	}

	out := make([]post.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}

	return out, nil
}
