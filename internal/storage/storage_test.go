package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
)

func sqliteConfig(t *testing.T) *model.Config {
	t.Helper()
	return &model.Config{Storage: model.StorageConfig{
		Driver:       "sqlite",
		DatabaseDir:  filepath.Join(t.TempDir(), "db"),
		DatabaseFile: "test.db",
		Key:          "roadmap",
	}}
}

func testRoadmap() model.Roadmap {
	return model.Roadmap{
		Title: "T",
		Milestones: []model.Milestone{{
			ID:         "m1",
			Title:      "First",
			IsExpanded: true,
			Resources: []model.Resource{{
				ID: "r1", Title: "R", Type: model.TypeQuiz, Difficulty: model.Beginner, Tags: []string{"DNA"},
			}},
		}},
	}
}

func exerciseKV(t *testing.T, kv KVStore) {
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))
	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	kv, err := NewKVStore(context.Background(), sqliteConfig(t), log.Discard())
	require.NoError(t, err)
	defer kv.Close()

	exerciseKV(t, kv)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	cfg := sqliteConfig(t)
	ctx := context.Background()

	first, err := NewStorage(ctx, cfg, log.Discard())
	require.NoError(t, err)
	require.NoError(t, first.RoadmapSave(ctx, testRoadmap()))
	require.NoError(t, first.Close())

	second, err := NewStorage(ctx, cfg, log.Discard())
	require.NoError(t, err)
	defer second.Close()

	got, found, err := second.RoadmapLoad(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testRoadmap(), got)
}

func TestNewKVStore_UnknownDriver(t *testing.T) {
	cfg := &model.Config{Storage: model.StorageConfig{Driver: "etcd"}}
	_, err := NewKVStore(context.Background(), cfg, log.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, "127.0.0.1:1", 0, log.Discard())
	assert.Error(t, err)

	_, err = NewRedisStore(ctx, " ", 0, log.Discard())
	assert.Error(t, err)
}

func TestRoadmapStorage_LoadMissing(t *testing.T) {
	s := NewRoadmapStorage(NewMemoryStore(), "roadmap", log.Discard())

	_, found, err := s.RoadmapLoad(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRoadmapStorage_LoadCorrupt(t *testing.T) {
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), "roadmap", "{not json"))
	s := NewRoadmapStorage(kv, "roadmap", log.Discard())

	_, found, err := s.RoadmapLoad(context.Background())
	assert.True(t, found)
	assert.True(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestRoadmapStorage_SaveWritesSingleKey(t *testing.T) {
	kv := NewMemoryStore()
	s := NewRoadmapStorage(kv, "bioinformatics-roadmap", log.Discard())

	require.NoError(t, s.RoadmapSave(context.Background(), testRoadmap()))

	text, err := kv.Get(context.Background(), "bioinformatics-roadmap")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "{\n  \"title\": \"T\""))
	assert.Len(t, kv.values, 1)
}

func TestFileExportAndReadAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "roadmap.json")
	require.NoError(t, FileExport(path, `{"title":"T"}`))

	res := <-ReadFileAsync(context.Background(), path)
	require.NoError(t, res.Err)
	assert.Equal(t, "{\"title\":\"T\"}\n", res.Text)

	_, open := <-ReadFileAsync(context.Background(), path)
	assert.True(t, open)
}

func TestReadFileAsync_Failures(t *testing.T) {
	res := <-ReadFileAsync(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, res.Err, ErrFileRead)
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
	assert.Empty(t, res.Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res = <-ReadFileAsync(ctx, "whatever.json")
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestReadAllAsync(t *testing.T) {
	res := <-ReadAllAsync(context.Background(), strings.NewReader(`{"title":"pasted"}`))
	require.NoError(t, res.Err)
	assert.Equal(t, `{"title":"pasted"}`, res.Text)
}
