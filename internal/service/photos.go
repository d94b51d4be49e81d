package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nimmigupta/bus25-FridgeVision/config"
)

// PhotoArchive stores analyzed fridge photos in S3. The archive is
// optional: a nil S3Config turns Store into a no-op.
type PhotoArchive struct {
	s3Config *config.S3Config
}

// NewPhotoArchive creates a new PhotoArchive instance
func NewPhotoArchive(s3Config *config.S3Config) *PhotoArchive {
	return &PhotoArchive{s3Config: s3Config}
}

// Store uploads the validated photo bytes and returns the public URL.
func (a *PhotoArchive) Store(ctx context.Context, img *ValidatedImage) (string, error) {
	if a == nil || a.s3Config == nil {
		return "", nil
	}

	fileName := fmt.Sprintf("fridge-photos/%s.%s", img.ID.String(), img.Ext)

	_, err := a.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.MIME),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.s3Config.BucketName, fileName)
	log.Printf("[PhotoArchive] archived photo %s", publicURL)

	return publicURL, nil
}
