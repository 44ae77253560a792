package s3

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const publicReadACL = "public-read"

// ImageStore uploads candidate images to an S3 bucket and returns the public
// object location.
type ImageStore struct {
	uploader *s3manager.Uploader
	bucket   string
}

// NewImageStore builds an image store on ambient AWS credentials (env or
// instance profile).
func NewImageStore(bucket string) (*ImageStore, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return &ImageStore{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
	}, nil
}

func (s *ImageStore) UploadImage(ctx context.Context, objectName string, contentType string, data []byte) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		ACL:    aws.String(publicReadACL),
		Key:    aws.String(objectName),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	up, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", err
	}
	return up.Location, nil
}
