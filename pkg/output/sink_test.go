package output

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestFileSinkPut(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	location, err := sink.Put(context.Background(), "sphere/render_1.png", []byte("data"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	expected := filepath.Join(dir, "sphere", "render_1.png")
	if location != expected {
		t.Errorf("location = %q, expected %q", location, expected)
	}
	got, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("file contents = %q", got)
	}
}

func TestFileSinkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSink(t.TempDir()).Put(ctx, "a.png", []byte("x"), "image/png")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestS3SinkPut(t *testing.T) {
	client := &fakeS3{}
	sink := NewS3SinkWithClient(client, "renders", "/nightly/")

	location, err := sink.Put(context.Background(), "sphere/render_1.png", []byte("pixels"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if location != "s3://renders/nightly/sphere/render_1.png" {
		t.Errorf("location = %q", location)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(client.inputs))
	}

	input := client.inputs[0]
	if aws.StringValue(input.Bucket) != "renders" {
		t.Errorf("bucket = %q", aws.StringValue(input.Bucket))
	}
	if aws.StringValue(input.Key) != "nightly/sphere/render_1.png" {
		t.Errorf("key = %q", aws.StringValue(input.Key))
	}
	if aws.StringValue(input.ContentType) != "image/png" {
		t.Errorf("content type = %q", aws.StringValue(input.ContentType))
	}
	if aws.Int64Value(input.ContentLength) != 6 || string(client.bodies[0]) != "pixels" {
		t.Errorf("unexpected body %q (length %d)", client.bodies[0], aws.Int64Value(input.ContentLength))
	}
}

func TestS3SinkPutError(t *testing.T) {
	uploadErr := errors.New("access denied")
	sink := NewS3SinkWithClient(&fakeS3{err: uploadErr}, "renders", "")

	_, err := sink.Put(context.Background(), "a.png", []byte("x"), "image/png")
	if !errors.Is(err, uploadErr) {
		t.Errorf("expected wrapped upload error, got %v", err)
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		dest   string
		bucket string
		prefix string
		ok     bool
	}{
		{"s3://renders", "renders", "", true},
		{"s3://renders/", "renders", "", true},
		{"s3://renders/nightly/runs", "renders", "nightly/runs", true},
		{"s3://", "", "", false},
		{"output", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			bucket, prefix, ok := ParseS3URL(tt.dest)
			if ok != tt.ok || bucket != tt.bucket || prefix != tt.prefix {
				t.Errorf("ParseS3URL(%q) = (%q, %q, %v), expected (%q, %q, %v)",
					tt.dest, bucket, prefix, ok, tt.bucket, tt.prefix, tt.ok)
			}
		})
	}
}

func TestNewSink(t *testing.T) {
	sink, err := NewSink("", S3Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fileSink, ok := sink.(*FileSink)
	if !ok || fileSink.Dir != "output" {
		t.Errorf("expected file sink rooted at output, got %#v", sink)
	}

	sink, err = NewSink("s3://renders/nightly", S3Config{Region: "us-east-1", AccessKey: "key", SecretKey: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s3Sink, ok := sink.(*S3Sink)
	if !ok {
		t.Fatalf("expected S3 sink, got %T", sink)
	}
	if s3Sink.bucket != "renders" || s3Sink.prefix != "nightly" {
		t.Errorf("S3 sink bucket=%q prefix=%q", s3Sink.bucket, s3Sink.prefix)
	}

	if _, err := NewSink("s3://", S3Config{}); err == nil {
		t.Error("expected error for S3 destination without bucket")
	}
}
