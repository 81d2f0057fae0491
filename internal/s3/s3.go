package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/platewise/platewise-api/internal/config"
)

// Store is the S3-backed recipe image store.
type Store struct {
	Cfg *config.Config
}

// NewStore creates a Store bound to the app config.
func NewStore(cfg *config.Config) *Store {
	return &Store{Cfg: cfg}
}

// Upload stores image bytes under the given key and returns the location URL.
func (s *Store) Upload(ctx context.Context, imgBytes []byte, key string) (string, error) {
	return UploadRecipeImage(ctx, s.Cfg, imgBytes, key)
}

// Delete removes the object under the given key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return DeleteRecipeImage(ctx, s.Cfg, key)
}

// newS3Client creates a new S3 client from the app config.
// When AWS access key and secret are provided, static credentials are used;
// otherwise the default credential chain is preserved (IAM role, instance
// profile, etc.) so ECS/EC2 task roles work without explicit keys.
func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.EnvVars.AWSRegion),
	}

	if cfg.EnvVars.AWSAccessKeyID != "" && cfg.EnvVars.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.EnvVars.AWSAccessKeyID,
			cfg.EnvVars.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// UploadRecipeImage uploads user-submitted image bytes to the recipe image
// bucket and returns the location URL.
func UploadRecipeImage(ctx context.Context, cfg *config.Config, imgBytes []byte, s3Key string) (string, error) {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return "", err
	}

	uploader := manager.NewUploader(client)

	result, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(cfg.EnvVars.S3Bucket),
		Key:    aws.String(s3Key),
		Body:   bytes.NewReader(imgBytes),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return result.Location, nil
}

// DeleteRecipeImage deletes a recipe image from the bucket.
func DeleteRecipeImage(ctx context.Context, cfg *config.Config, s3Key string) error {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(cfg.EnvVars.S3Bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %v", err)
	}

	return nil
}

// GenerateRecipeImageKey generates the S3 key for a recipe image. A random
// component keeps re-uploads from colliding with stale CDN entries.
func GenerateRecipeImageKey(recipeID uint, ext string) string {
	return fmt.Sprintf("recipes/%d/images/%s%s", recipeID, uuid.New().String(), ext)
}
