package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"maternity/internal/testutil"
)

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "/static/uploads/")

	fh := testutil.FileHeader(t, "front_image", "my passport.png", testutil.PNGBytes)
	obj, err := store.Put(context.Background(), "verification/7", fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.Key, "verification/7/"))
	assert.True(t, strings.HasSuffix(obj.Key, "_my_passport.png"))
	assert.Equal(t, "/static/uploads/"+obj.Key, obj.URL)
	assert.Equal(t, "image/png", obj.ContentType)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(obj.Key)))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), obj.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(obj.Key)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), obj.Key))
}

func TestLocalOpen(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "/static/uploads")
	ctx := context.Background()

	obj, err := store.Put(ctx, "verification/7", testutil.FileHeader(t, "front_image", "id.png", testutil.PNGBytes))
	require.NoError(t, err)

	rc, err := store.Open(ctx, obj.Key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, testutil.PNGBytes, got)
	assert.Equal(t, "image/png", ContentType(obj.Key))

	_, err = store.Open(ctx, "verification/7/missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	secret := filepath.Join(filepath.Dir(dir), "outside.txt")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o600))
	t.Cleanup(func() { _ = os.Remove(secret) })
	_, err = store.Open(ctx, "../outside.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalRejectsBadFiles(t *testing.T) {
	store := NewLocal(t.TempDir(), "/static")

	_, err := store.Put(context.Background(), "x", testutil.FileHeader(t, "f", "a.txt", []byte("plain text, not an image")))
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, err = store.Put(context.Background(), "x", testutil.FileHeader(t, "f", "a.png", nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

type mockS3 struct {
	mock.Mock
	body []byte
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.body, _ = io.ReadAll(in.Body)
	args := m.Called(*in.Bucket, *in.Key, *in.ContentType)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(*in.Bucket, *in.Key)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(args.Get(0).([]byte)))}, nil
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(*in.Bucket, *in.Key)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3PutUsesBucketAndPrefix(t *testing.T) {
	client := &mockS3{}
	client.On("PutObject", "id-docs", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "verification/3/") && strings.HasSuffix(key, ".png")
	}), "image/png").Return(nil)

	store := newS3WithClient(client, S3Config{Bucket: "id-docs", Region: "ap-south-1"})
	obj, err := store.Put(context.Background(), "verification/3", testutil.FileHeader(t, "back_image", "b.png", testutil.PNGBytes))
	require.NoError(t, err)

	assert.Equal(t, "https://id-docs.s3.ap-south-1.amazonaws.com/"+obj.Key, obj.URL)
	assert.Equal(t, testutil.PNGBytes, client.body)
	client.AssertExpectations(t)

	client.On("DeleteObject", "id-docs", obj.Key).Return(nil)
	require.NoError(t, store.Delete(context.Background(), obj.Key))
}

func TestS3Open(t *testing.T) {
	client := &mockS3{}
	client.On("GetObject", "id-docs", "verification/3/a.png").Return(testutil.PNGBytes, nil)
	client.On("GetObject", "id-docs", "verification/3/gone.png").Return([]byte(nil), &types.NoSuchKey{})

	store := newS3WithClient(client, S3Config{Bucket: "id-docs", Region: "ap-south-1"})
	rc, err := store.Open(context.Background(), "verification/3/a.png")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, testutil.PNGBytes, got)

	_, err = store.Open(context.Background(), "verification/3/gone.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3CustomEndpointURL(t *testing.T) {
	store := newS3WithClient(&mockS3{}, S3Config{Bucket: "docs", Region: "us-east-1", Endpoint: "http://minio:9000/"})
	assert.Equal(t, "http://minio:9000/docs/a/b.png", store.URL("a/b.png"))
}
