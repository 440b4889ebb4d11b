// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package storage uploads, downloads and deletes project files in an
S3-compatible bucket.

Objects are addressed by key internally and by public URL externally:
a stored object's URL is the configured public base URL joined with its key,
and every operation that accepts a URL derives the key back from it.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrForeignURL is returned when a URL does not point into the configured bucket.
var ErrForeignURL = errors.New("storage: url is outside the configured bucket")

// ErrTooLarge is returned by [Client.Download] when the object exceeds the read limit.
var ErrTooLarge = errors.New("storage: object exceeds read limit")

// Options configures a [Client].
type Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// objectAPI is the subset of the S3 client used here.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client stores project files in one bucket.
type Client struct {
	api     objectAPI
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// ProgressFunc receives the bytes written so far and the expected total.
// total is -1 when the size is unknown.
type ProgressFunc func(written, total int64)

/*
New builds an S3 client from the default AWS credential chain.

A non-empty Endpoint switches to path-style addressing for S3-compatible
services (R2, MinIO). PublicBaseURL defaults to the virtual-hosted AWS URL.
*/
func New(context context.Context, options Options, logger *slog.Logger) (*Client, error) {
	if options.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context, awsconfig.WithRegion(options.Region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := options.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", options.Bucket, options.Region)
	}

	logger.Info("object_storage_configured",
		slog.String("bucket", options.Bucket),
		slog.String("endpoint", options.Endpoint),
	)

	return newClient(api, options.Bucket, baseURL, logger), nil
}

func newClient(api objectAPI, bucket, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		api:     api,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With(slog.String("component", "object_storage")),
	}
}

/*
Upload writes body under key and returns the object's public URL.

Parameters:
  - size: the exact body length, or -1 when unknown
  - progress: optional callback invoked as bytes are consumed

Returns:
  - string: public URL of the stored object
  - error: the S3 failure, unretried
*/
func (client *Client) Upload(context context.Context, key string, body io.Reader, size int64, contentType string, progress ProgressFunc) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
		Body:   newProgressReader(body, size, progress),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := client.api.PutObject(context, input); err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}

	client.logger.DebugContext(context, "object_uploaded", slog.String("key", key), slog.Int64("size", size))
	return client.URL(key), nil
}

// Delete removes the object behind a public URL.
func (client *Client) Delete(context context.Context, objectURL string) error {
	key, err := client.KeyFromURL(objectURL)
	if err != nil {
		return err
	}

	_, err = client.api.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}

	client.logger.DebugContext(context, "object_deleted", slog.String("key", key))
	return nil
}

// Download reads the object behind a public URL, refusing objects larger than maxBytes.
func (client *Client) Download(context context.Context, objectURL string, maxBytes int64) ([]byte, error) {
	key, err := client.KeyFromURL(objectURL)
	if err != nil {
		return nil, err
	}

	output, err := client.api.GetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(io.LimitReader(output.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// URL returns the public URL of key.
func (client *Client) URL(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return client.baseURL + "/" + strings.Join(segments, "/")
}

// KeyFromURL reverses [Client.URL].
func (client *Client) KeyFromURL(objectURL string) (string, error) {
	rest, ok := strings.CutPrefix(objectURL, client.baseURL+"/")
	if !ok || rest == "" {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, objectURL)
	}

	key, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, objectURL)
	}
	return key, nil
}
