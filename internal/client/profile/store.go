package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/healthpod/healthpod/internal/client/pod"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/logging"
)

// ErrCancelled is returned when the user declines to overwrite an existing
// profile.
var ErrCancelled = errors.New("profile import cancelled")

// ErrNoProfile is returned by Export when no profile record exists.
var ErrNoProfile = errors.New("no profile found")

// ConfirmFunc asks the user whether the existing profile copies may be
// replaced.
type ConfirmFunc func(existing int) bool

// Store keeps exactly one canonical profile record on the pod. Importing a
// new one discovers and removes all prior copies first.
type Store struct {
	store   pod.Collaborator
	logger  logging.Logger
	dirPath string
	now     func() time.Time
}

func NewStore(store pod.Collaborator, logger logging.Logger) *Store {
	return &Store{
		store:   store,
		logger:  logger,
		dirPath: common.DataRoot + "/" + common.ProfileDir,
		now:     time.Now,
	}
}

// Import validates raw, asks for confirmation when prior copies exist,
// deletes them, and writes the new record. Individual not-found errors
// while deleting priors are tolerated.
func (s *Store) Import(ctx context.Context, raw []byte, confirm ConfirmFunc) (*Document, error) {
	doc, err := Decode(raw, s.now)
	if err != nil {
		return nil, err
	}

	existing, err := s.listProfileFiles(ctx)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		if confirm == nil || !confirm(len(existing)) {
			return nil, ErrCancelled
		}
		for _, name := range existing {
			path := s.dirPath + "/" + name
			if err := s.store.DeleteFile(ctx, path); err != nil && !errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("delete prior profile %s: %w", path, err)
			}
		}
	}

	content, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("profile_%d%s", doc.Timestamp.UnixMilli(), common.EncSuffix)
	if err := s.store.WritePod(ctx, s.dirPath+"/"+name, content, true); err != nil {
		return nil, fmt.Errorf("write profile: %w", err)
	}

	s.logger.Info(ctx, "profile imported", "path", s.dirPath+"/"+name, "replaced", len(existing))
	return doc, nil
}

// Export returns the most recent profile record by embedded timestamp,
// along with its canonical serialization. Unreadable copies are logged and
// skipped.
func (s *Store) Export(ctx context.Context) (*Document, []byte, error) {
	names, err := s.listProfileFiles(ctx)
	if err != nil {
		return nil, nil, err
	}

	var docs []*Document
	for _, name := range names {
		path := s.dirPath + "/" + name
		content, err := s.store.ReadPod(ctx, path)
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable profile copy", "path", path, "error", err)
			continue
		}
		doc, err := Decode(content, s.now)
		if err != nil {
			s.logger.Warn(ctx, "skipping invalid profile copy", "path", path, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, nil, ErrNoProfile
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Timestamp.After(docs[j].Timestamp)
	})

	newest := docs[0]
	content, err := newest.Encode()
	if err != nil {
		return nil, nil, err
	}
	return newest, content, nil
}

func (s *Store) listProfileFiles(ctx context.Context) ([]string, error) {
	container, err := s.store.GetResourcesInContainer(ctx, s.dirPath)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.dirPath, err)
	}

	var names []string
	for _, f := range container.Files {
		if strings.HasSuffix(f.Name, common.EncSuffix) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}
