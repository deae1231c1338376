package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrUnsupportedMedia is returned for uploads outside the extension
// allow-list.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Store hands out opaque references for stored media. The relational layer
// only ever sees the reference.
type Store interface {
	Save(data []byte, originalName string) (string, error)
	Remove(filename string) error
	Path(filename string) string
	ThumbPath(filename string) string
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// LocalStore writes originals to uploadDir and thumbnails fitted into a
// thumbSize square to thumbDir.
type LocalStore struct {
	uploadDir string
	thumbDir  string
	thumbSize int
}

func NewLocalStore(uploadDir, thumbDir string, thumbSize int) (*LocalStore, error) {
	for _, dir := range []string{uploadDir, thumbDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
		}
	}
	return &LocalStore{
		uploadDir: uploadDir,
		thumbDir:  thumbDir,
		thumbSize: thumbSize,
	}, nil
}

func (s *LocalStore) Save(data []byte, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedMedia
	}

	filename := uuid.New().String() + ext
	if err := os.WriteFile(s.Path(filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	if err := s.writeThumbnail(data, filename); err != nil {
		// The original is already on disk; a missing thumbnail should not
		// fail the upload. Remove the orphan and report the cause.
		_ = os.Remove(s.Path(filename))
		return "", err
	}

	return filename, nil
}

func (s *LocalStore) writeThumbnail(data []byte, filename string) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, s.thumbSize, s.thumbSize, imaging.Lanczos)
	if err := imaging.Save(thumb, s.ThumbPath(filename)); err != nil {
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return nil
}

func (s *LocalStore) Remove(filename string) error {
	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	if err := os.Remove(s.ThumbPath(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove thumbnail: %w", err)
	}
	return nil
}

func (s *LocalStore) Path(filename string) string {
	return filepath.Join(s.uploadDir, filepath.Base(filename))
}

func (s *LocalStore) ThumbPath(filename string) string {
	return filepath.Join(s.thumbDir, filepath.Base(filename))
}
