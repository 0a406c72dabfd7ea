package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/raushankrgupta/vape-catalog-scraper/config"
	"github.com/raushankrgupta/vape-catalog-scraper/models"
	log "github.com/sirupsen/logrus"
)

const resultsFolder = "scrape_results"

var (
	S3Client      *s3.Client
	PresignClient *s3.PresignClient
)

// InitS3 initializes the S3 client
func InitS3() error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(appConfig.AWSRegion),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config, %w", err)
	}

	S3Client = s3.NewFromConfig(cfg)
	PresignClient = s3.NewPresignClient(S3Client)
	log.Info("S3 Client Initialized")
	return nil
}

// UploadFileToS3 uploads a file to S3 and returns the Object Key
func UploadFileToS3(ctx context.Context, file io.Reader, objectKey string, contentType string) (string, error) {
	if S3Client == nil {
		if err := InitS3(); err != nil {
			return "", err
		}
	}

	_, err := S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(appConfig.AWSBucketName),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return objectKey, nil
}

// GetPresignedURL generates a presigned URL for an object
func GetPresignedURL(ctx context.Context, objectKey string) (string, error) {
	if PresignClient == nil {
		if err := InitS3(); err != nil {
			return "", err
		}
	}

	request, err := PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(appConfig.AWSBucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}

	return request.URL, nil
}

// ResultExportKey returns the object key a run's results are stored under
func ResultExportKey(requestID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", resultsFolder, at.UTC().Format("2006-01-02"), requestID)
}

// S3Exporter uploads scrape results as JSON documents to the configured bucket
type S3Exporter struct{}

// ExportResults uploads products and returns the object key
func (S3Exporter) ExportResults(ctx context.Context, requestID string, products []models.ProductDetails) (string, error) {
	body, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return UploadFileToS3(ctx, bytes.NewReader(body), ResultExportKey(requestID, time.Now()), "application/json")
}

// PresignURL returns a temporary download URL for an exported result
func (S3Exporter) PresignURL(ctx context.Context, key string) (string, error) {
	return GetPresignedURL(ctx, key)
}
