package profile

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthpod/healthpod/internal/client/pod"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/logging"
)

type fakeCollaborator struct {
	files     map[string][]byte
	deleteErr map[string]error
	deleted   []string
}

func newFakeCollaborator() *fakeCollaborator {
	return &fakeCollaborator{files: map[string][]byte{}, deleteErr: map[string]error{}}
}

func (f *fakeCollaborator) ReadPod(_ context.Context, path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, common.ErrNotFound
	}
	return content, nil
}

func (f *fakeCollaborator) WritePod(_ context.Context, path string, content []byte, _ bool) error {
	f.files[path] = content
	return nil
}

func (f *fakeCollaborator) DeleteFile(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	if err, ok := f.deleteErr[path]; ok {
		return err
	}
	delete(f.files, path)
	return nil
}

func (f *fakeCollaborator) GetDirURL(path string) string { return "http://pod/" + path }

func (f *fakeCollaborator) GetResourcesInContainer(_ context.Context, dirPath string) (*pod.Container, error) {
	c := &pod.Container{}
	prefix := dirPath + "/"
	for path := range f.files {
		if strings.HasPrefix(path, prefix) && !strings.Contains(path[len(prefix):], "/") {
			c.Files = append(c.Files, pod.FileInfo{Name: path[len(prefix):]})
		}
	}
	sort.Slice(c.Files, func(i, j int) bool { return c.Files[i].Name < c.Files[j].Name })
	return c, nil
}

func (f *fakeCollaborator) EnsureSecurityKey() error { return nil }

func newTestStore(collab *fakeCollaborator) *Store {
	s := NewStore(collab, logging.Discard())
	s.now = fixedNow
	return s
}

func validJSON(t *testing.T) []byte {
	return marshal(t, map[string]any{"data": validFields()})
}

func TestStore_ImportFirstProfile(t *testing.T) {
	collab := newFakeCollaborator()
	s := newTestStore(collab)

	doc, err := s.Import(context.Background(), validJSON(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "A", doc.Fields["name"])

	name := "profile_" + strconv.FormatInt(fixedNow().UnixMilli(), 10) + common.EncSuffix
	_, ok := collab.files[common.DataRoot+"/"+common.ProfileDir+"/"+name]
	assert.True(t, ok)
}

func TestStore_ImportReplacesPriorCopies(t *testing.T) {
	collab := newFakeCollaborator()
	s := newTestStore(collab)
	ctx := context.Background()

	_, err := s.Import(ctx, marshal(t, map[string]any{
		"data": validFields(), "timestamp": "2026-01-01T00:00:00Z",
	}), nil)
	require.NoError(t, err)

	asked := 0
	doc, err := s.Import(ctx, validJSON(t), func(existing int) bool {
		asked = existing
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 1, asked)
	assert.Equal(t, fixedNow(), doc.Timestamp)

	// only the new copy remains
	assert.Len(t, collab.files, 1)
}

func TestStore_ImportDeclinedIsCancelled(t *testing.T) {
	collab := newFakeCollaborator()
	s := newTestStore(collab)
	ctx := context.Background()

	_, err := s.Import(ctx, validJSON(t), nil)
	require.NoError(t, err)

	_, err = s.Import(ctx, validJSON(t), func(int) bool { return false })
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, collab.deleted)
}

func TestStore_ImportToleratesVanishedPriors(t *testing.T) {
	collab := newFakeCollaborator()
	s := newTestStore(collab)
	ctx := context.Background()

	dir := common.DataRoot + "/" + common.ProfileDir
	collab.files[dir+"/profile_1.json.enc.ttl"] = validJSON(t)
	collab.deleteErr[dir+"/profile_1.json.enc.ttl"] = common.ErrNotFound

	_, err := s.Import(ctx, validJSON(t), func(int) bool { return true })
	require.NoError(t, err)
}

func TestStore_ImportInvalidDocument(t *testing.T) {
	collab := newFakeCollaborator()
	s := newTestStore(collab)

	_, err := s.Import(context.Background(), marshal(t, map[string]any{"name": "A"}), nil)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, collab.files)
}

func TestStore_ExportNewest(t *testing.T) {
	collab := newFakeCollaborator()
	s := newTestStore(collab)
	ctx := context.Background()

	dir := common.DataRoot + "/" + common.ProfileDir
	old := validFields()
	old["name"] = "Old"
	collab.files[dir+"/profile_1.json.enc.ttl"] = marshal(t, map[string]any{
		"data": old, "timestamp": "2025-01-01T00:00:00Z",
	})
	fresh := validFields()
	fresh["name"] = "Fresh"
	collab.files[dir+"/profile_2.json.enc.ttl"] = marshal(t, map[string]any{
		"data": fresh, "timestamp": "2026-05-01T00:00:00Z",
	})

	doc, content, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", doc.Fields["name"])
	assert.Contains(t, string(content), "Fresh")
}

func TestStore_ExportEmpty(t *testing.T) {
	s := newTestStore(newFakeCollaborator())
	_, _, err := s.Export(context.Background())
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	collab := newFakeCollaborator()
	s := newTestStore(collab)
	ctx := context.Background()

	original, err := s.Import(ctx, validJSON(t), nil)
	require.NoError(t, err)

	_, content, err := s.Export(ctx)
	require.NoError(t, err)

	reimported, err := s.Import(ctx, content, func(int) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, original.Fields, reimported.Fields)
	assert.Equal(t, original.Timestamp, reimported.Timestamp)
}
