package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/otel"
	"guesthouse/shared/constant"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// region is accepted by S3-compatible stores such as R2 and MinIO.
const region = "auto"

// Object is a document to store under Key inside the configured bucket.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
	Metadata    map[string]string
}

type S3 interface {
	// Enabled reports whether a bucket is configured.
	Enabled() bool
	Put(ctx context.Context, object Object) (url string, err error)
}

type s3Impl struct {
	client *s3.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	settings := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, "")),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(settings.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{client: client, cfg: cfg, otel: otel}
}

func (svc *s3Impl) Enabled() bool {
	return svc.cfg.External.S3.BucketName != constant.Empty
}

func (svc *s3Impl) Put(ctx context.Context, object Object) (location string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Put")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.cfg.External.S3.BucketName
	key := CleanKey(object.Key)

	scope.SetAttributes(map[string]any{
		"bucket":     bucket,
		"object.key": key,
		"size":       len(object.Body),
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(object.Body),
		ContentType:   aws.String(object.ContentType),
		ContentLength: aws.Int64(int64(len(object.Body))),
		Metadata:      object.Metadata,
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return PublicURL(svc.cfg.External.S3.PublicDomain, key), nil
}

// CleanKey normalizes an object key: no leading slash, no dot segments.
func CleanKey(key string) string {
	return strings.TrimPrefix(path.Clean("/"+key), "/")
}

// PublicURL joins the public domain and the escaped key. Without a domain only
// the key is returned.
func PublicURL(domain, key string) string {
	if domain == constant.Empty {
		return key
	}

	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.TrimSuffix(domain, "/") + "/" + strings.Join(segments, "/")
}
