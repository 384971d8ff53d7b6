// Package blob stores uploaded event images in an S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dukerupert/rsvp/internal/apperr"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 10 << 20

const keyPrefix = "event-photos/"

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// PublicURL is the base URL objects are served from. It defaults to
	// Endpoint/Bucket.
	PublicURL string
}

// Object describes a stored upload.
type Object struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

type Store struct {
	client    s3Client
	bucket    string
	publicURL string
	now       func() time.Time
}

// New returns a Store. Without a bucket and keys the store is unconfigured
// and every upload fails.
func New(cfg Config) *Store {
	s := &Store{
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		now:       time.Now,
	}
	if s.publicURL == "" && cfg.Endpoint != "" {
		s.publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		s.client = newS3Client(cfg)
	}
	return s
}

func newS3Client(cfg Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (s *Store) Configured() bool {
	return s.client != nil
}

// CheckImage rejects anything that is not an image or is larger than
// MaxImageSize.
func CheckImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return apperr.Rejected("file must be an image")
	}
	if size > MaxImageSize {
		return apperr.Rejected("file size must be %s or less", humanize.IBytes(MaxImageSize))
	}
	if size <= 0 {
		return apperr.Rejected("file is empty")
	}
	return nil
}

// PutImage validates and uploads one image and returns its public location.
func (s *Store) PutImage(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*Object, error) {
	if err := CheckImage(contentType, size); err != nil {
		return nil, err
	}
	if !s.Configured() {
		return nil, fmt.Errorf("blob storage not configured")
	}

	key := s.objectKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload to s3: %w", err)
	}

	return &Object{
		URL:         s.publicURL + "/" + key,
		Key:         key,
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

func (s *Store) objectKey(filename string) string {
	name := unsafeNameChars.ReplaceAllString(path.Base(filename), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("%s%d-%s-%s", keyPrefix, s.now().UnixMilli(), uuid.NewString()[:8], name)
}
