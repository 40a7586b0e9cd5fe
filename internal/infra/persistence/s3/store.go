// Package s3 persists the customer sequence as a single object in an
// S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"customerdesk/internal/infra/persistence/snapshot"
	"customerdesk/pkg/domain"
)

const (
	// DefaultKey is the object key used when none is configured.
	DefaultKey    = "customers.json"
	defaultRegion = "us-east-1"
)

var _ domain.Persister = (*Store)(nil)

// Config holds explicit construction parameters. Credentials fall back to the
// default AWS chain when AccessKeyID is empty.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; custom endpoint such as MinIO
	Key             string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Store reads and overwrites one object.
type Store struct {
	client *s3.Client
	bucket string
	key    string
	mu     sync.Mutex
}

// New builds the S3 client. optFns are applied after the Config-derived options.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	}}, optFns...)
	client := s3.NewFromConfig(awsCfg, opts...)
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, bucket: cfg.Bucket, key: key}, nil
}

func (s *Store) Driver() domain.StorageDriver { return domain.StorageS3 }

// Location returns bucket/key.
func (s *Store) Location() string { return s.bucket + "/" + s.key }

// Load fetches the object. A missing object is an empty sequence.
func (s *Store) Load(ctx context.Context) ([]domain.Customer, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		if isNotFound(err) {
			return []domain.Customer{}, nil
		}
		return nil, fmt.Errorf("get %s: %w", s.Location(), err)
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Location(), err)
	}
	customers, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, &domain.CorruptError{Driver: domain.StorageS3, Location: s.Location(), Err: err}
	}
	return customers, nil
}

// Save overwrites the object with the full sequence.
func (s *Store) Save(ctx context.Context, customers []domain.Customer) error {
	data, err := snapshot.Marshal(customers)
	if err != nil {
		return &domain.WriteError{Driver: domain.StorageS3, Location: s.Location(), Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &s.key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return &domain.WriteError{Driver: domain.StorageS3, Location: s.Location(), Err: err}
	}
	return nil
}

func (s *Store) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
