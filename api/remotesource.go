package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"time"

	"github.com/aouyang1/imageslider/carousel"
	"github.com/aouyang1/imageslider/util"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = time.Hour

type objectLister interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// RemoteSource lists images stored in an S3 bucket and hands out presigned
// URLs for them.
type RemoteSource struct {
	lister    objectLister
	presigner objectPresigner

	s3Bucket string
}

func NewRemoteSource(ctx context.Context, awsProfileName, s3Bucket string) (*RemoteSource, error) {
	if s3Bucket == "" {
		return nil, errors.New("no s3 bucket provided for remote source")
	}

	// Load the Shared AWS Configuration (~/.aws/config)
	var opts []func(*config.LoadOptions) error
	if awsProfileName != "" {
		opts = append(opts, config.WithSharedConfigProfile(awsProfileName))
	}
	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	cfg, err := config.LoadDefaultConfig(ctxCfg, opts...)
	cancelCfg()
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config, %w", err)
	}

	s3Client := s3.NewFromConfig(cfg)
	return newRemoteSource(s3Client, s3.NewPresignClient(s3Client), s3Bucket), nil
}

func newRemoteSource(lister objectLister, presigner objectPresigner, s3Bucket string) *RemoteSource {
	return &RemoteSource{
		lister:    lister,
		presigner: presigner,
		s3Bucket:  s3Bucket,
	}
}

// ListImages returns the supported images from the first page of the bucket
// listing, at most perPage of them.
func (r *RemoteSource) ListImages(ctx context.Context, perPage int) ([]carousel.ImageRecord, error) {
	output, err := r.lister.ListObjectsV2(
		ctx,
		&s3.ListObjectsV2Input{
			Bucket:  aws.String(r.s3Bucket),
			MaxKeys: aws.Int32(int32(perPage)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("unable to list s3 objects, %s, %w", r.s3Bucket, err)
	}

	images := make([]carousel.ImageRecord, 0, len(output.Contents))
	for object := range slices.Values(output.Contents) {
		key := aws.ToString(object.Key)
		if !util.IsSupportedImage(key) {
			continue
		}
		if len(images) >= perPage {
			break
		}

		req, err := r.presigner.PresignGetObject(
			ctx,
			&s3.GetObjectInput{
				Bucket: aws.String(r.s3Bucket),
				Key:    aws.String(key),
			},
			s3.WithPresignExpires(presignExpiry),
		)
		if err != nil {
			slog.Warn("unable to presign s3 object, leaving url empty", "key", key, "error", err)
		}

		var displayURL string
		if req != nil {
			displayURL = req.URL
		}
		images = append(images, carousel.ImageRecord{
			ID:         key,
			DisplayURL: displayURL,
			AltText:    path.Base(key),
			AuthorName: r.s3Bucket,
		})
	}

	if len(images) == 0 {
		slog.Info("no remote images found", "bucket", r.s3Bucket)
	}
	return images, nil
}
