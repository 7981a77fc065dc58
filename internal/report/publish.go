package report

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dbsmedya/goreport/internal/config"
	"github.com/dbsmedya/goreport/internal/logger"
)

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher copies run artifacts to an S3 bucket under <prefix>/<run id>/.
type Publisher struct {
	client ObjectPutter
	config config.S3Config
	logger *logger.Logger
}

// NewPublisher creates a Publisher on an existing client.
func NewPublisher(client ObjectPutter, cfg config.S3Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{client: client, config: cfg, logger: log}
}

// NewS3Publisher creates a Publisher using the default AWS credential chain.
func NewS3Publisher(ctx context.Context, cfg config.S3Config, log *logger.Logger) (*Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewPublisher(s3.NewFromConfig(awsCfg), cfg, log), nil
}

// ObjectKey returns the key a file of the given run is stored under.
func (p *Publisher) ObjectKey(runID, file string) string {
	return path.Join(p.config.Prefix, runID, filepath.Base(file))
}

// Publish uploads every file and returns the object keys in order. It stops
// at the first failed upload.
func (p *Publisher) Publish(ctx context.Context, runID string, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := p.ObjectKey(runID, file)
		if err := p.put(ctx, file, key); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *Publisher) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	p.logger.Debugw("Uploading artifact", "bucket", p.config.Bucket, "key", key)

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.config.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(file)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return nil
}

func contentType(file string) string {
	switch filepath.Ext(file) {
	case ".png":
		return "image/png"
	case ".yaml":
		return "application/yaml"
	}
	return "application/octet-stream"
}
