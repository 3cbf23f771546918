// Package transfer sequences uploads, downloads, and deletes against the
// pod. Each operation kind is tracked by an explicit state value so the
// interactive layer can disable its trigger while one is in flight.
package transfer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/healthpod/healthpod/internal/client/pod"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/filex"
	"github.com/healthpod/healthpod/internal/logging"
)

// Kind identifies one transfer operation family.
type Kind int

const (
	KindUpload Kind = iota
	KindDownload
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindUpload:
		return "upload"
	case KindDownload:
		return "download"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of one operation kind.
type Status int

const (
	StatusIdle Status = iota
	StatusInProgress
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInProgress:
		return "in progress"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var fileNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9._-] with an
// underscore.
func SanitizeFileName(name string) string {
	return fileNameSanitizer.ReplaceAllString(name, "_")
}

// RemoteName returns the sanitized destination name carrying exactly one
// encrypted-container suffix.
func RemoteName(name string) string {
	s := SanitizeFileName(name)
	s = strings.TrimSuffix(s, common.EncSuffix)
	return s + common.EncSuffix
}

// LocalName is the suggested save name for a downloaded object: the remote
// name with the encrypted-container suffix stripped.
func LocalName(remoteName string) string {
	return strings.TrimSuffix(remoteName, common.EncSuffix)
}

// textExtensions are treated as text on upload; everything else is
// base64-encoded first.
var textExtensions = map[string]bool{
	".txt": true, ".json": true, ".csv": true, ".md": true,
	".ttl": true, ".xml": true, ".yaml": true, ".yml": true,
	".html": true, ".log": true,
}

func isTextExtension(name string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(strings.TrimSuffix(name, common.EncSuffix)))]
}

// Controller runs one operation of each kind at a time. It is not safe for
// concurrent use; the interactive loop drives it sequentially.
type Controller struct {
	store  pod.Collaborator
	logger logging.Logger
	status map[Kind]Status
}

func NewController(store pod.Collaborator, logger logging.Logger) *Controller {
	return &Controller{
		store:  store,
		logger: logger,
		status: map[Kind]Status{
			KindUpload:   StatusIdle,
			KindDownload: StatusIdle,
			KindDelete:   StatusIdle,
		},
	}
}

// Status returns the current state of the given operation kind.
func (c *Controller) Status(kind Kind) Status {
	return c.status[kind]
}

// Busy reports whether an operation of the given kind is in flight.
func (c *Controller) Busy(kind Kind) bool {
	return c.status[kind] == StatusInProgress
}

func (c *Controller) begin(kind Kind) error {
	if c.Busy(kind) {
		return fmt.Errorf("%s already in progress", kind)
	}
	c.status[kind] = StatusInProgress
	return nil
}

func (c *Controller) finish(kind Kind, err error) error {
	if err != nil {
		c.status[kind] = StatusFailed
		return err
	}
	c.status[kind] = StatusSucceeded
	return nil
}

// UploadBytes stores content under dirPath as name. Text content passes
// through unchanged; binary content is base64-encoded. The write always
// requests encryption.
func (c *Controller) UploadBytes(ctx context.Context, dirPath, name string, content []byte) error {
	if err := c.begin(KindUpload); err != nil {
		return err
	}
	return c.finish(KindUpload, c.upload(ctx, dirPath, name, content))
}

// UploadFile reads localPath and uploads it under dirPath keeping its base
// name.
func (c *Controller) UploadFile(ctx context.Context, dirPath, localPath string) error {
	if err := c.begin(KindUpload); err != nil {
		return err
	}
	content, err := os.ReadFile(localPath)
	if err != nil {
		return c.finish(KindUpload, fmt.Errorf("read %s: %w", localPath, err))
	}
	return c.finish(KindUpload, c.upload(ctx, dirPath, filepath.Base(localPath), content))
}

func (c *Controller) upload(ctx context.Context, dirPath, name string, content []byte) error {
	if !isTextExtension(name) {
		content = []byte(base64.StdEncoding.EncodeToString(content))
	}

	remote := dirPath + "/" + RemoteName(name)
	if err := c.store.WritePod(ctx, remote, content, true); err != nil {
		return fmt.Errorf("upload %s: %w", remote, err)
	}

	c.logger.Info(ctx, "uploaded file", "path", remote, "size", len(content))
	return nil
}

// DownloadDirName is the directory created under the working directory when
// a download names no target.
const DownloadDirName = "downloads"

// Download reads remotePath, decrypting with the cached or freshly prompted
// data key, and writes the plaintext to localPath. An empty localPath saves
// into DownloadDirName; when localPath is a directory the suggested
// suffix-stripped name is used inside it.
func (c *Controller) Download(ctx context.Context, remotePath, localPath string) (string, error) {
	if err := c.begin(KindDownload); err != nil {
		return "", err
	}

	target, err := c.download(ctx, remotePath, localPath)
	return target, c.finish(KindDownload, err)
}

func (c *Controller) download(ctx context.Context, remotePath, localPath string) (string, error) {
	if err := c.store.EnsureSecurityKey(); err != nil {
		return "", err
	}

	content, err := c.store.ReadPod(ctx, remotePath)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", remotePath, err)
	}

	if localPath == "" {
		dir, err := filex.EnsureSubDir(DownloadDirName)
		if err != nil {
			return "", err
		}
		localPath = dir
	}

	target := localPath
	if info, statErr := os.Stat(localPath); statErr == nil && info.IsDir() {
		target = filepath.Join(localPath, LocalName(filepath.Base(remotePath)))
	}

	if err := filex.WriteLocal(target, content); err != nil {
		return "", err
	}

	c.logger.Info(ctx, "downloaded file", "path", remotePath, "target", target)
	return target, nil
}

// Delete removes the object at remotePath and then its access-control
// sidecar. A missing primary object is treated as already deleted; sidecar
// failures are logged and never fail the operation.
func (c *Controller) Delete(ctx context.Context, remotePath string) error {
	if err := c.begin(KindDelete); err != nil {
		return err
	}
	return c.finish(KindDelete, c.delete(ctx, remotePath))
}

func (c *Controller) delete(ctx context.Context, remotePath string) error {
	if err := c.store.DeleteFile(ctx, remotePath); err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", remotePath, err)
	}

	aclPath := remotePath + common.AclSuffix
	if err := c.store.DeleteFile(ctx, aclPath); err != nil && !errors.Is(err, common.ErrNotFound) {
		c.logger.Warn(ctx, "sidecar delete failed", "path", aclPath, "error", err)
	}

	return nil
}
