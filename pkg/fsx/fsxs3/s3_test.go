package fsxs3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Abraxas-365/resumatch/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	bucket  string
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3FileSystem_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	fs := NewS3FileSystem(api, "bucket", "uploads")

	p := fs.Join("u-1", "resume", "cv.pdf")
	require.NoError(t, fs.WriteFileStream(ctx, p, strings.NewReader("%PDF-1.4")))

	assert.Equal(t, "bucket", api.bucket)
	assert.Contains(t, api.objects, "uploads/u-1/resume/cv.pdf")
	assert.Equal(t, "s3://bucket/uploads/u-1/resume/cv.pdf", fs.URL(p))

	got, err := fs.ReadFile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))

	require.NoError(t, fs.DeleteFile(ctx, p))
	_, err = fs.ReadFile(ctx, p)
	assert.ErrorIs(t, err, fsx.ErrNotExist)
}
