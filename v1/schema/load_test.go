package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

type failingStore struct {
	snapshot.Store
}

func (failingStore) Save(context.Context, string, []byte) error {
	return errors.New("read-only filesystem")
}

func columnRow(name, typ string, nullable int) map[string]interface{} {
	return map[string]interface{}{
		FieldTableName:  "users",
		FieldColumnName: name,
		FieldTypeName:   typ,
		FieldNullable:   int16(nullable),
	}
}

func expectUsersCatalog(intro *MockIntrospector) {
	intro.EXPECT().Tables(gomock.Any(), "shop").Return([]string{"users"}, nil).Times(1)
	intro.EXPECT().Columns(gomock.Any(), "users").Return([]map[string]interface{}{
		columnRow("id", "int identity", 0),
		columnRow("age", "int", 1),
	}, nil).Times(1)
}

func TestLoadIntrospectsAndPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	expectUsersCatalog(intro)

	store := snapshot.NewMemory()
	loader := Loader{Introspector: intro, Store: store}

	cache, err := loader.Load(context.Background(), "shop", false)
	require.NoError(t, err)
	assert.Equal(t, SourceIntrospection, cache.Source())

	desc, ok := cache.Lookup("users", "age")
	require.True(t, ok)
	assert.True(t, desc.Nullable)

	data, err := store.Load(context.Background(), snapshot.DefaultKey)
	require.NoError(t, err)
	restored, err := Decode(data)
	require.NoError(t, err)
	_, ok = restored.Lookup("users", "id")
	assert.True(t, ok)
}

func TestLoadFromSnapshotRunsNoIntrospection(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	intro.EXPECT().Tables(gomock.Any(), gomock.Any()).Times(0)
	intro.EXPECT().Columns(gomock.Any(), gomock.Any()).Times(0)

	store := snapshot.NewMemory()
	data, err := Encode(sampleCache())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "custom.json", data))

	loader := Loader{Introspector: intro, Store: store, Key: "custom.json"}
	cache, err := loader.Load(context.Background(), "shop", false)
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, cache.Source())
	_, ok := cache.Lookup("users", "name")
	assert.True(t, ok)
}

func TestRestore(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	intro.EXPECT().Tables(gomock.Any(), gomock.Any()).Times(0)

	store := snapshot.NewMemory()
	loader := Loader{Introspector: intro, Store: store}

	_, err := loader.Restore(context.Background())
	assert.ErrorIs(t, err, ErrSchemaLoad)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	data, err := Encode(sampleCache())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), snapshot.DefaultKey, data))

	cache, err := loader.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, cache.Source())

	_, err = (&Loader{}).Restore(context.Background())
	assert.ErrorIs(t, err, ErrSchemaLoad)
}

func TestLoadForceIgnoresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	expectUsersCatalog(intro)

	store := snapshot.NewMemory()
	require.NoError(t, store.Save(context.Background(), snapshot.DefaultKey, []byte(`{"stale":{}}`)))

	loader := Loader{Introspector: intro, Store: store}
	cache, err := loader.Load(context.Background(), "shop", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, cache.Tables())

	data, err := store.Load(context.Background(), snapshot.DefaultKey)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestLoadCorruptSnapshotRebuilds(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	expectUsersCatalog(intro)
	log := NewMockLogger(ctrl)
	log.EXPECT().Warn("Ignoring unusable schema snapshot", gomock.Any(), gomock.Any()).Times(1)
	log.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	store := snapshot.NewMemory()
	require.NoError(t, store.Save(context.Background(), snapshot.DefaultKey, []byte("{not json")))

	loader := Loader{Introspector: intro, Store: store, Logger: log}
	cache, err := loader.Load(context.Background(), "shop", false)
	require.NoError(t, err)
	assert.Equal(t, SourceIntrospection, cache.Source())
}

func TestLoadIntrospectionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	intro.EXPECT().Tables(gomock.Any(), "shop").Return(nil, errors.New("permission denied"))

	loader := Loader{Introspector: intro, Store: snapshot.NewMemory()}
	cache, err := loader.Load(context.Background(), "shop", false)
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, ErrSchemaLoad)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestLoadColumnFailureLeavesNoPartialCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	intro.EXPECT().Tables(gomock.Any(), "shop").Return([]string{"users", "orders"}, nil)
	intro.EXPECT().Columns(gomock.Any(), "users").Return([]map[string]interface{}{columnRow("id", "int", 0)}, nil)
	intro.EXPECT().Columns(gomock.Any(), "orders").Return(nil, errors.New("timeout"))

	store := snapshot.NewMemory()
	loader := Loader{Introspector: intro, Store: store}
	cache, err := loader.Load(context.Background(), "shop", false)
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, ErrSchemaLoad)

	_, err = store.Load(context.Background(), snapshot.DefaultKey)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestLoadPersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	expectUsersCatalog(intro)

	loader := Loader{Introspector: intro, Store: failingStore{Store: snapshot.NewMemory()}}
	cache, err := loader.Load(context.Background(), "shop", false)
	assert.Nil(t, cache)
	assert.ErrorIs(t, err, ErrSchemaLoad)
}

func TestLoadWithoutStoreDoesNotPersist(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	expectUsersCatalog(intro)

	loader := Loader{Introspector: intro}
	cache, err := loader.Load(context.Background(), "shop", false)
	require.NoError(t, err)
	assert.True(t, cache.Loaded())
}

func TestLoadRejectsRowWithoutColumnName(t *testing.T) {
	ctrl := gomock.NewController(t)
	intro := NewMockIntrospector(ctrl)
	intro.EXPECT().Tables(gomock.Any(), "shop").Return([]string{"users"}, nil)
	intro.EXPECT().Columns(gomock.Any(), "users").Return([]map[string]interface{}{
		{FieldTypeName: "int", FieldNullable: 1},
	}, nil)

	loader := Loader{Introspector: intro}
	_, err := loader.Load(context.Background(), "shop", false)
	assert.ErrorIs(t, err, ErrSchemaLoad)
}
