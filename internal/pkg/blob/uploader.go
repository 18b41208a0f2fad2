package blob

import (
	"context"
	"os"
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

//Uploader publishes prepared audio to a S3 compatible object store
type Uploader struct {
	client *s3.Client
	bucket string
}

//NewUploader creates Uploader instance from config
func NewUploader(config *viper.Viper) (*Uploader, error) {
	if config == nil {
		return nil, errors.New("No config provided")
	}
	bucket := config.GetString("s3.bucket")
	if bucket == "" {
		return nil, errors.New("No s3.bucket provided")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if r := config.GetString("s3.region"); r != "" {
		opts = append(opts, awsconfig.WithRegion(r))
	}
	if key := config.GetString("s3.key"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, config.GetString("s3.secret"), "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init s3 config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ep := config.GetString("s3.endpoint"); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
		o.UsePathStyle = config.GetBool("s3.pathStyle")
	})
	cmdapp.Log.Infof("S3 bucket: %s", bucket)
	return &Uploader{client: client, bucket: bucket}, nil
}

//Upload puts the file into the bucket under key, returns the durable reference
func (u *Uploader) Upload(ctx context.Context, key string, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", errors.Wrap(err, "Can't open file "+filePath)
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", errors.Wrap(err, "Can't put object "+key)
	}
	ref := "s3://" + u.bucket + "/" + key
	cmdapp.Log.Infof("Published %s", ref)
	return ref, nil
}

//Healthy checks the bucket is reachable
func (u *Uploader) Healthy() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)})
	return err
}
