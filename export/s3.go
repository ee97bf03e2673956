package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"newsdash/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and will fall back to the standard AWS config/credential chain.
type S3Config struct {
	Bucket string
	// Prefix is prepended to every object key
	Prefix string
	// Region to use for requests, e.g. "ap-northeast-2". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile. If empty, default chain applies.
	Profile string
	// UsePathStyle forces path-style addressing (useful for S3-compatible providers like MinIO).
	UsePathStyle bool
	// BOM prefixes the CSV with a UTF-8 byte order mark
	BOM bool
}

// objectPutter is the slice of the S3 client the sink needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads each batch as a CSV object
type S3Sink struct {
	client objectPutter
	bucket string
	prefix string
	bom    bool
	now    func() time.Time
}

// NewS3Sink creates the sink using the default AWS configuration chain,
// with optional overrides from S3Config.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3Sink(c, cfg), nil
}

func newS3Sink(client objectPutter, cfg S3Config) *S3Sink {
	prefix := strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: prefix, bom: cfg.BOM, now: time.Now}
}

func (s *S3Sink) Name() string { return "s3" }

// Send writes the batch as CSV to {prefix}{keyword}/{yyyy/mm/dd}/{run id}.csv
func (s *S3Sink) Send(ctx context.Context, b Batch) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, b.Records, CSVOptions{BOM: s.bom}); err != nil {
		return err
	}

	key := s.Key(b)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buf.Bytes()),
		ContentType:  aws.String("text/csv; charset=utf-8"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload of %s failed: %w", key, err)
	}
	return nil
}

// Key returns the object key for a batch
func (s *S3Sink) Key(b Batch) string {
	runID := b.RunID
	if runID == "" {
		runID = types.GenerateID(fmt.Sprint(s.now().UnixNano()))
	}
	return fmt.Sprintf("%s%s/%s/%s.csv", s.prefix, slug(b.Keyword), s.now().UTC().Format("2006/01/02"), runID)
}

func (s *S3Sink) Close() error { return nil }

// slug keeps letters and digits (any script) and joins the rest with dashes
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "query"
	}
	return out
}
