package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind selects the allow-list and size ceiling applied to an upload.
type Kind string

const (
	// KindImage covers photos attached to events, news, leadership and the
	// gallery image categories.
	KindImage Kind = "image"
	// KindMedia covers larger gallery video uploads.
	KindMedia Kind = "media"
	// KindDocument covers resources and report attachments.
	KindDocument Kind = "document"
)

// Errors returned by Save, mapped to 400 responses by handlers.
var (
	ErrTooLarge    = errors.New("file exceeds the size limit")
	ErrBadType     = errors.New("file type not allowed")
	ErrNoFile      = errors.New("no file provided")
	ErrEmptyUpload = errors.New("uploaded file is empty")
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var mediaExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".mp4": true, ".webm": true, ".mov": true,
}

var documentExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true, ".csv": true,
}

// Saver writes uploaded files under a base directory, one subdirectory per
// kind.
type Saver struct {
	dir          string
	maxImageSize int64
	maxMediaSize int64
}

// NewSaver creates a Saver rooted at dir, creating per-kind subdirectories.
func NewSaver(dir string, maxImageSize, maxMediaSize int64) (*Saver, error) {
	for _, kind := range []Kind{KindImage, KindMedia, KindDocument} {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("creating upload dir for %s: %w", kind, err)
		}
	}
	return &Saver{dir: dir, maxImageSize: maxImageSize, maxMediaSize: maxMediaSize}, nil
}

func (s *Saver) limitFor(kind Kind) int64 {
	if kind == KindImage {
		return s.maxImageSize
	}
	return s.maxMediaSize
}

func extsFor(kind Kind) map[string]bool {
	switch kind {
	case KindImage:
		return imageExts
	case KindMedia:
		return mediaExts
	default:
		return documentExts
	}
}

// Result describes a stored upload.
type Result struct {
	// Path is relative to the uploads root, suitable for storing in the
	// database and serving back under the static file route.
	Path      string
	MimeType  string
	SizeBytes int64
}

// Save validates and stores one multipart file. Stored names are
// <unix-nano>-<uuid><ext>, so concurrent uploads of the same filename never
// collide. A partially written file is removed before any error return.
func (s *Saver) Save(file multipart.File, header *multipart.FileHeader, kind Kind) (*Result, error) {
	if header == nil {
		return nil, ErrNoFile
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extsFor(kind)[ext] {
		return nil, fmt.Errorf("%w: %s", ErrBadType, ext)
	}

	limit := s.limitFor(kind)
	if header.Size > limit {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, header.Size, limit)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	relPath := filepath.Join(string(kind), name)
	absPath := filepath.Join(s.dir, relPath)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("creating upload file: %w", err)
	}

	// Copy with a hard cap one byte past the limit so a lying Content-Length
	// cannot sneak an oversized body through.
	written, err := io.Copy(dst, io.LimitReader(file, limit+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > limit {
		err = fmt.Errorf("%w: body larger than declared size", ErrTooLarge)
	}
	if err == nil && written == 0 {
		err = ErrEmptyUpload
	}
	if err != nil {
		os.Remove(absPath)
		return nil, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &Result{Path: relPath, MimeType: mimeType, SizeBytes: written}, nil
}

// Remove deletes a stored upload by its relative path. Missing files are not
// an error: the database row is the source of truth and the file is already
// gone.
func (s *Saver) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	// Reject traversal out of the uploads root.
	cleaned := filepath.Clean(relPath)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid upload path: %s", relPath)
	}
	err := os.Remove(filepath.Join(s.dir, cleaned))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the uploads root for the static file route.
func (s *Saver) Dir() string {
	return s.dir
}
