package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/heartspace/internal/domain/post"
	"github.com/google/uuid"
)

type storedPost struct {
	post.Post
	seq int
}

type PostsRepo struct {
	mu    sync.RWMutex
	items []storedPost
}

func NewPostsRepo() *PostsRepo {
	return &PostsRepo{}
}

func (r *PostsRepo) Create(_ context.Context, p post.Post) (post.Post, error) {
	p.ID = uuid.NewString()
	if p.Comments == nil {
		p.Comments = []string{}
	}

	r.mu.Lock()
	r.items = append(r.items, storedPost{Post: p, seq: len(r.items)})
	r.mu.Unlock()

	return p, nil
}

func (r *PostsRepo) List(_ context.Context) ([]post.Post, error) {
	return r.collect(func(post.Post) bool { return true }), nil
}

func (r *PostsRepo) ListByUser(_ context.Context, userID string) ([]post.Post, error) {
	return r.collect(func(p post.Post) bool { return p.UserID == userID }), nil
}

// Len reports how many posts are stored.
func (r *PostsRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// collect copies matching posts out newest first. Posts created within the
// same clock tick keep reverse insertion order.
func (r *PostsRepo) collect(match func(post.Post) bool) []post.Post {
	r.mu.RLock()
	picked := make([]storedPost, 0, len(r.items))
	for _, sp := range r.items {
		if match(sp.Post) {
			picked = append(picked, sp)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(picked,
		func(sp storedPost) int64 { return sp.CreatedAt.UnixNano() },
		func(sp storedPost) int { return sp.seq },
	)

	out := make([]post.Post, 0, len(picked))
	for _, sp := range picked {
		p := sp.Post
		p.Comments = append([]string{}, sp.Comments...)
		out = append(out, p)
	}

	return out
}

func sortNewestFirst[T any](items []T, createdAt func(T) int64, seq func(T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if ci != cj {
			return ci > cj
		}
		return seq(items[i]) > seq(items[j])
	})
}
