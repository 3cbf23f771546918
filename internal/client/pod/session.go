package pod

import (
	"context"
	"fmt"
	"path"

	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/cryptox"
)

// KeyPrompt asks the user for their secret key. Implemented by the CLI with
// a no-echo terminal read.
type KeyPrompt func() ([]byte, error)

// Session implements Collaborator on top of the HTTP client. It caches the
// data key derived from the user's secret key, prompting at most once per
// session.
type Session struct {
	client    *HTTPClient
	keyPrompt KeyPrompt
	dataKey   []byte
}

func NewSession(client *HTTPClient, keyPrompt KeyPrompt) *Session {
	return &Session{client: client, keyPrompt: keyPrompt}
}

// Client exposes the underlying HTTP client for auth flows.
func (s *Session) Client() *HTTPClient {
	return s.client
}

// EnsureSecurityKey derives and caches the data key, prompting the user for
// the secret key if it is not cached yet. The secret key is wiped after
// derivation.
func (s *Session) EnsureSecurityKey() error {
	if s.dataKey != nil {
		return nil
	}

	secret, err := s.keyPrompt()
	if err != nil {
		return fmt.Errorf("security key: %w", err)
	}
	defer common.WipeByteArray(secret)

	s.dataKey = cryptox.DeriveDataKey(secret)
	return nil
}

// ForgetSecurityKey wipes the cached data key, forcing a prompt on the next
// encrypted operation.
func (s *Session) ForgetSecurityKey() {
	common.WipeByteArray(s.dataKey)
	s.dataKey = nil
}

// ReadPod fetches the resource at path and opens it with the data key when
// it is stored encrypted. Decryption failures surface as the generic load
// failure.
func (s *Session) ReadPod(ctx context.Context, p string) ([]byte, error) {
	res, err := s.client.readResource(ctx, p)
	if err != nil {
		return nil, err
	}

	if !res.Encrypted {
		return res.Content, nil
	}

	if err := s.EnsureSecurityKey(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
	}

	plaintext, err := cryptox.Open(res.Content, s.dataKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
	}
	return plaintext, nil
}

// WritePod stores content at path, sealing it first when encrypted is true.
func (s *Session) WritePod(ctx context.Context, p string, content []byte, encrypted bool) error {
	if encrypted {
		if err := s.EnsureSecurityKey(); err != nil {
			return fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
		}
		sealed, err := cryptox.Seal(content, s.dataKey)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
		}
		content = sealed
	}
	return s.client.writeResource(ctx, p, content, encrypted)
}

// DeleteFile removes the object at path.
func (s *Session) DeleteFile(ctx context.Context, p string) error {
	return s.client.deleteResource(ctx, p)
}

// GetDirURL resolves a logical directory path to its absolute URL on the
// pod server.
func (s *Session) GetDirURL(p string) string {
	return s.client.baseURL + "/" + path.Clean(p)
}

// GetResourcesInContainer lists the immediate contents of a directory.
func (s *Session) GetResourcesInContainer(ctx context.Context, p string) (*Container, error) {
	dto, err := s.client.listContainer(ctx, p)
	if err != nil {
		return nil, err
	}

	container := &Container{Subdirs: dto.Subdirs}
	for _, f := range dto.Files {
		container.Files = append(container.Files, FileInfo{
			Name:       f.Name,
			Size:       f.Size,
			ModifiedAt: f.UpdatedAt,
		})
	}
	return container, nil
}
