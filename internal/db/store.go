package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/geocoder89/heartspace/internal/observability"
	"github.com/geocoder89/heartspace/internal/repo/memory"
	"github.com/geocoder89/heartspace/internal/repo/mongodb"
	"github.com/geocoder89/heartspace/internal/repo/postgres"
	"github.com/geocoder89/heartspace/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrUnsupportedScheme = errors.New("unsupported database url scheme")

// Store bundles the credential and post stores behind one connection.
type Store struct {
	Backend string
	Users   service.UserStore
	Posts   service.PostStore

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// NewMemoryStore returns a process-local store, used by tests.
func NewMemoryStore() *Store {
	noop := func(context.Context) error { return nil }

	return &Store{
		Backend: "memory",
		Users:   memory.NewUsersRepo(),
		Posts:   memory.NewPostsRepo(),
		ping:    noop,
		close:   noop,
	}
}

// Open connects to the store named by dbURL, retrying per policy. mongodb://
// and mongodb+srv:// select the document store; postgres:// and
// postgresql:// select the SQL store.
func Open(ctx context.Context, dbURL, dbName string, policy RetryPolicy, prom *observability.Prom, log *slog.Logger) (*Store, error) {
	backend, err := backendFor(dbURL)
	if err != nil {
		return nil, err
	}

	var store *Store

	err = Retry(ctx, policy, log, func(ctx context.Context) error {
		var err error
		switch backend {
		case "mongo":
			store, err = openMongo(ctx, dbURL, dbName, prom)
		case "postgres":
			store, err = openPostgres(ctx, dbURL, prom)
		}
		return err
	})

	if err != nil {
		return nil, err
	}

	log.Info("database connected", "backend", store.Backend)

	return store, nil
}

func backendFor(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return "mongo", nil
	case "postgres", "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func openMongo(ctx context.Context, uri, dbName string, prom *observability.Prom) (*Store, error) {
	client, err := mongodb.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}

	database := client.Database(dbName)

	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Backend: "mongo",
		Users:   mongodb.NewUsersRepo(database, prom),
		Posts:   mongodb.NewPostsRepo(database, prom),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func(ctx context.Context) error {
			return disconnect(ctx, client)
		},
	}, nil
}

func disconnect(ctx context.Context, client *mongo.Client) error {
	err := client.Disconnect(ctx)
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return nil
	}
	return err
}

func openPostgres(ctx context.Context, dbURL string, prom *observability.Prom) (*Store, error) {
	pool, err := NewPool(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{
		Backend: "postgres",
		Users:   postgres.NewUsersRepo(pool, prom),
		Posts:   postgres.NewPostsRepo(pool, prom),
		ping:    pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}
