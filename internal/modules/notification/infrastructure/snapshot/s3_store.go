package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
)

// S3Config holds configuration for S3/MinIO snapshot storage
type S3Config struct {
	BucketName string
	Region     string
	Endpoint   string // Internal endpoint (e.g., minio:9000)
	AccessKey  string
	SecretKey  string
	UseSSL     bool
}

// objectAPI is the slice of the S3 client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3SnapshotStore keeps point-in-time settings copies under
// snapshots/{uid}/{timestamp}.json. RFC3339 keys sort chronologically, so
// the lexicographically greatest key is the latest snapshot.
type S3SnapshotStore struct {
	client objectAPI
	bucket string
}

// NewS3SnapshotStore creates a snapshot store backed by AWS S3 or MinIO.
func NewS3SnapshotStore(ctx context.Context, cfg S3Config) (*S3SnapshotStore, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// MinIO / LocalStack Configuration
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !cfg.UseSSL && !hasHTTPPrefix(endpoint) {
				endpoint = "http://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true // Required for MinIO
		}
	})

	return &S3SnapshotStore{client: client, bucket: cfg.BucketName}, nil
}

// NewS3SnapshotStoreWithClient wires an existing client, mainly for tests.
func NewS3SnapshotStoreWithClient(client objectAPI, bucket string) *S3SnapshotStore {
	return &S3SnapshotStore{client: client, bucket: bucket}
}

func snapshotKey(uid uuid.UUID, at time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s.json", uid, at.UTC().Format(time.RFC3339))
}

func (s *S3SnapshotStore) Save(ctx context.Context, settings domain.UserNotificationSettings, at time.Time) error {
	body, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(snapshotKey(settings.UID, at)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return nil
}

func (s *S3SnapshotStore) Latest(ctx context.Context, uid uuid.UUID) (*domain.UserNotificationSettings, error) {
	prefix := fmt.Sprintf("snapshots/%s/", uid)

	latest := ""
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}
		for _, obj := range out.Contents {
			if obj.Key != nil && *obj.Key > latest {
				latest = *obj.Key
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}

	if latest == "" {
		return nil, domain.ErrNoSnapshot
	}

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(latest),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", latest, err)
	}
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", latest, err)
	}
	var settings domain.UserNotificationSettings
	if err := json.Unmarshal(body, &settings); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", latest, err)
	}
	return &settings, nil
}

// hasHTTPPrefix checks if a string has http:// or https:// prefix
func hasHTTPPrefix(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
