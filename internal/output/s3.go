package output

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client S3Writer uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer publishes an artifact to an S3 object.
//
// Example usage:
//
//	client, _ := output.NewS3Client(ctx, "us-east-1", "")
//	w := output.NewS3Writer(client, "my-bucket", "routes/_generated_routes.tsx")
//	err := w.Write(ctx, src)
type S3Writer struct {
	client      PutObjectAPI
	bucket      string
	key         string
	contentType string
}

// NewS3Writer creates a writer for bucket/key. The content type follows the
// key's extension.
func NewS3Writer(client PutObjectAPI, bucket, key string) *S3Writer {
	return &S3Writer{
		client:      client,
		bucket:      bucket,
		key:         key,
		contentType: ContentType(key),
	}
}

// NewS3Client creates an S3 client from the default AWS configuration chain.
// A non-empty endpoint selects an S3-compatible store with path-style
// addressing.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Target returns the s3:// URL of the object.
func (w *S3Writer) Target() string {
	return "s3://" + w.bucket + "/" + w.key
}

// Write uploads data as the object's new content.
func (w *S3Writer) Write(ctx context.Context, data []byte) error {
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(w.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(w.contentType),
		Metadata: map[string]string{
			"generator":   "routegen",
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 upload to %s failed: %w", w.Target(), err)
	}
	return nil
}

// ContentType returns the MIME type used for a generated artifact name.
func ContentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".js", ".jsx", ".mjs":
		return "text/javascript"
	default:
		return "text/typescript"
	}
}
