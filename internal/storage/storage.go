// Package storage implements the asset store for catalog images and
// showcase videos: a pre-write validation gate, bucket-based object
// layout on local disk, generated object names, public URL mapping and
// best-effort deletes.
package storage

import (
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/expresCocina/Italia-atalear/internal/uniuri"
)

const (
	// BucketImages holds catalog and site images.
	BucketImages = "fotos-catalogo"
	// BucketVideos holds the showcase video clips.
	BucketVideos = "videos-italia"

	// MaxImageSize is the upload limit for images (5 MiB).
	MaxImageSize = 5 * 1024 * 1024
	// MaxVideoSize is the upload limit for videos (50 MiB).
	MaxVideoSize = 50 * 1024 * 1024

	// PublicPathPrefix is the URL path under which stored objects are
	// served.
	PublicPathPrefix = "/storage"

	objectTokenLen = 12
)

var (
	// ErrNotAnImage is returned when an image upload does not carry an image/* MIME type.
	ErrNotAnImage = errors.New("file is not an image")
	// ErrImageTooLarge is returned when an image upload exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds the 5MB limit")
	// ErrUnsupportedVideoType is returned when a video upload is not MP4, WebM or MOV.
	ErrUnsupportedVideoType = errors.New("unsupported video format, only MP4, WebM or MOV are accepted")
	// ErrVideoTooLarge is returned when a video upload exceeds MaxVideoSize.
	ErrVideoTooLarge = errors.New("video exceeds the 50MB limit")
	// ErrUnknownBucket is returned for operations on a bucket the store does not manage.
	ErrUnknownBucket = errors.New("unknown storage bucket")

	// base36Chars is the charset for generated object name tokens.
	base36Chars = []byte("0123456789abcdefghijklmnopqrstuvwxyz")

	// videoMIMETypes is the exact set of accepted video MIME types.
	videoMIMETypes = map[string]bool{
		"video/mp4":       true,
		"video/webm":      true,
		"video/quicktime": true,
	}
)

// ValidateImage rejects unsuitable image files before anything touches
// the store: the MIME type must begin with image/ and the size must not
// exceed 5 MiB.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	if size > MaxImageSize {
		return ErrImageTooLarge
	}

	return nil
}

// ValidateVideo rejects unsuitable video files before anything touches
// the store: the MIME type must be exactly video/mp4, video/webm or
// video/quicktime and the size must not exceed 50 MiB.
func ValidateVideo(contentType string, size int64) error {
	if !videoMIMETypes[contentType] {
		return ErrUnsupportedVideoType
	}

	if size > MaxVideoSize {
		return ErrVideoTooLarge
	}

	return nil
}

// Store keeps objects on local disk under one directory per bucket and
// maps them to public URLs served by the web layer.
type Store struct {
	root    string
	baseURL string
}

// New creates a store rooted at the given directory and ensures both
// bucket directories exist. baseURL is the externally visible site URL
// public object URLs are built from.
func New(root, baseURL string) (*Store, error) {
	for _, bucket := range []string{BucketImages, BucketVideos} {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o750); err != nil {
			return nil, err
		}
	}

	return &Store{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Root returns the directory objects are stored under.
func (s *Store) Root() string {
	return s.root
}

// UploadImage validates and stores an image, returning its public URL.
// Validation failures abort before any write.
func (s *Store) UploadImage(originalName, contentType string, size int64, r io.Reader) (string, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return "", err
	}

	return s.upload(BucketImages, originalName, r)
}

// UploadVideo validates and stores a video, returning its public URL.
// Validation failures abort before any write.
func (s *Store) UploadVideo(originalName, contentType string, size int64, r io.Reader) (string, error) {
	if err := ValidateVideo(contentType, size); err != nil {
		return "", err
	}

	return s.upload(BucketVideos, originalName, r)
}

// Delete removes an object from a bucket. A missing object is not an
// error.
func (s *Store) Delete(bucket, object string) error {
	if bucket != BucketImages && bucket != BucketVideos {
		return ErrUnknownBucket
	}

	// Refuse path traversal in object names taken from URLs.
	object = path.Base(object)

	err := os.Remove(filepath.Join(s.root, bucket, object))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// DeleteByURL removes the object a public URL points at, keyed by the
// tail segments of the URL. Deletion is best effort: failures are
// logged by callers and never block the surrounding update.
func (s *Store) DeleteByURL(url string) error {
	bucket, object := splitObjectURL(url)
	if object == "" {
		return nil
	}

	return s.Delete(bucket, object)
}

// PublicURL returns the externally visible URL of a stored object.
func (s *Store) PublicURL(bucket, object string) string {
	return s.baseURL + PublicPathPrefix + "/" + bucket + "/" + object
}

// upload stores the reader under a generated object name of the form
// <random-base36-token>-<unix-ms>.<ext>. Uniqueness comes from the
// random token plus the millisecond timestamp; collisions are treated
// as negligible.
func (s *Store) upload(bucket, originalName string, r io.Reader) (string, error) {
	object := objectName(originalName)
	target := filepath.Join(s.root, bucket, object)

	f, err := os.Create(target)
	if err != nil {
		return "", err
	}

	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)

		return "", err
	}

	if err = f.Close(); err != nil {
		return "", err
	}

	log.Debug().Str("bucket", bucket).Str("object", object).Msg("stored object")

	return s.PublicURL(bucket, object), nil
}

// objectName generates a stored object name, keeping the original file
// extension.
func objectName(originalName string) string {
	token := uniuri.NewLenChars(objectTokenLen, base36Chars)
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

	name := token + "-" + stamp

	if ext := path.Ext(originalName); ext != "" {
		name += ext
	}

	return name
}

// splitObjectURL extracts the bucket and object name from a public
// object URL. The object is the tail segment; the bucket is the segment
// before it. Unrecognized layouts fall back to the image bucket, which
// matches the legacy URL scheme.
func splitObjectURL(url string) (bucket, object string) {
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	if len(parts) == 0 {
		return "", ""
	}

	object = parts[len(parts)-1]
	bucket = BucketImages

	if len(parts) >= 2 {
		if p := parts[len(parts)-2]; p == BucketVideos || p == BucketImages {
			bucket = p
		}
	}

	return bucket, object
}
