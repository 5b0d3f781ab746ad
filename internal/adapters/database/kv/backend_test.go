package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/finovate_app/internal/adapters/database/kv"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type BackendTestSuite struct {
	suite.Suite
	newBackend func() kv.Backend
	backend    kv.Backend
}

func (suite *BackendTestSuite) SetupTest() {
	suite.backend = suite.newBackend()
}

func (suite *BackendTestSuite) TearDownTest() {
	suite.NoError(suite.backend.Close())
}

func (suite *BackendTestSuite) TestGet_MissingKey() {
	_, err := suite.backend.Get(context.Background(), "absent")
	suite.ErrorIs(err, kv.ErrKeyNotFound)
}

func (suite *BackendTestSuite) TestSetThenGet() {
	ctx := context.Background()
	suite.Require().NoError(suite.backend.Set(ctx, "finovate", []byte(`{"accounts":[]}`)))

	got, err := suite.backend.Get(ctx, "finovate")
	suite.Require().NoError(err)
	suite.JSONEq(`{"accounts":[]}`, string(got))
}

func (suite *BackendTestSuite) TestSet_Overwrites() {
	ctx := context.Background()
	suite.Require().NoError(suite.backend.Set(ctx, "k", []byte("one")))
	suite.Require().NoError(suite.backend.Set(ctx, "k", []byte("two")))

	got, err := suite.backend.Get(ctx, "k")
	suite.Require().NoError(err)
	suite.Equal("two", string(got))
}

func TestMemoryBackend(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: func() kv.Backend { return kv.NewMemoryBackend() }})
}

func TestFileBackend(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: func() kv.Backend {
		b, err := kv.NewFileBackend(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		return b
	}})
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	suite.Run(t, &BackendTestSuite{newBackend: func() kv.Backend {
		mr.FlushAll()
		return kv.NewRedisBackend(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	}})
}

func TestFileBackend_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := kv.NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := b.Set(ctx, "ns/state", []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "ns_state.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
	if _, err := os.Stat(filepath.Join(dir, "ns_state.json")); err != nil {
		t.Fatal(err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	mem, err := kv.Open(ctx, kv.Options{Kind: kv.KindMemory})
	if err != nil || mem == nil {
		t.Fatalf("memory backend: %v", err)
	}

	file, err := kv.Open(ctx, kv.Options{Kind: kv.KindFile, Path: t.TempDir()})
	if err != nil || file == nil {
		t.Fatalf("file backend: %v", err)
	}

	rb, err := kv.Open(ctx, kv.Options{Kind: kv.KindRedis, RedisURL: "redis://" + mr.Addr()})
	if err != nil || rb == nil {
		t.Fatalf("redis backend: %v", err)
	}
	rb.Close()

	if _, err := kv.Open(ctx, kv.Options{Kind: "etcd"}); err == nil {
		t.Fatal("expected error for unknown backend kind")
	}
}

// TestPostgresBackend runs against a real server when TEST_DATABASE_URL is set.
func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, &BackendTestSuite{newBackend: func() kv.Backend {
		b, err := kv.NewPostgresBackendFromURL(context.Background(), url)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}})
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	if _, err := kv.Open(context.Background(), kv.Options{Kind: kv.KindPostgres}); err == nil {
		t.Fatal("expected error for missing database URL")
	}
}
