package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/heartspace/internal/domain/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUsersRepo_GetByIDMalformedIDIsNotFound(t *testing.T) {
	// no collection: the id is rejected before any query is sent
	r := &UsersRepo{}

	for _, id := range []string{"", "missing", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := r.GetByID(context.Background(), id); !errors.Is(err, user.ErrNotFound) {
			t.Fatalf("id %q: got %v, want ErrNotFound", id, err)
		}
	}
}

func TestPostDoc_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	p := postDoc{
		ID:        oid,
		UserID:    "u1",
		Name:      "Ada",
		Content:   "hello",
		CreatedAt: created,
		UpdatedAt: created,
	}.toDomain()

	if p.ID != oid.Hex() || p.UserID != "u1" || p.Name != "Ada" {
		t.Fatalf("unexpected post: %+v", p)
	}

	if p.Comments == nil || len(p.Comments) != 0 {
		t.Fatalf("expected empty non-nil comments, got %#v", p.Comments)
	}

	if p.CreatedAt.Location() != time.UTC || !p.CreatedAt.Equal(created) {
		t.Fatalf("createdAt not normalized to UTC: %v", p.CreatedAt)
	}
}

func TestUserDoc_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()

	u := userDoc{ID: oid, Name: "Ada", Email: "ada@x.com", Password: "hash", ProfilePic: user.DefaultProfilePic}.toDomain()

	if u.ID != oid.Hex() || u.PasswordHash != "hash" || u.ProfilePic != user.DefaultProfilePic {
		t.Fatalf("unexpected user: %+v", u)
	}
}
