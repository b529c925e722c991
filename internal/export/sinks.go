package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Poster sends a signed document over HTTP.
type Poster interface {
	PostExportData(ctx context.Context, url, contentType string, data []byte, signature string) error
}

// HTTPSink posts the document to a webhook, signed with HMAC-SHA256.
type HTTPSink struct {
	url    string
	secret string
	poster Poster
}

func NewHTTPSink(url, secret string, poster Poster) *HTTPSink {
	return &HTTPSink{url: url, secret: secret, poster: poster}
}

func (s *HTTPSink) Name() string { return "http" }

func (s *HTTPSink) Deliver(ctx context.Context, doc Document) (string, error) {
	if err := s.poster.PostExportData(ctx, s.url, doc.ContentType, doc.Body, Sign(s.secret, doc.Body)); err != nil {
		return "", fmt.Errorf("post export: %w", err)
	}
	return s.url, nil
}

// ObjectPutter is the part of the S3 client the R2 sink needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Sink uploads documents to Cloudflare R2 (S3-compatible object storage).
type R2Sink struct {
	client ObjectPutter
	bucket string
	newID  func() string
}

// NewR2Sink creates an R2Sink configured for the given Cloudflare account.
func NewR2Sink(ctx context.Context, accountID, accessKey, secretKey, bucket string) (*R2Sink, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return newR2Sink(client, bucket), nil
}

func newR2Sink(client ObjectPutter, bucket string) *R2Sink {
	return &R2Sink{client: client, bucket: bucket, newID: uuid.NewString}
}

func (s *R2Sink) Name() string { return "r2" }

func (s *R2Sink) Deliver(ctx context.Context, doc Document) (string, error) {
	key := s.objectKey(doc)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc.Body),
		ContentType: aws.String(doc.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("r2 put object: %w", err)
	}
	return fmt.Sprintf("r2://%s/%s", s.bucket, key), nil
}

// objectKey is exports/deals_<yyyymmdd_hhmmss>_<uuid>.<ext>.
func (s *R2Sink) objectKey(doc Document) string {
	ext := "csv"
	if doc.ContentType == XLSXContentType {
		ext = "xlsx"
	}
	return fmt.Sprintf("exports/deals_%s_%s.%s", doc.CreatedAt.Format("20060102_150405"), s.newID(), ext)
}
