package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memS3 is an in-memory bucket store standing in for the S3 client.
type memS3 struct {
	objects map[string][]byte
	cors    map[string][]types.CORSRule
	err     error
	// bodyErr cuts every object body short with this error
	bodyErr error
}

func newMemS3() *memS3 {
	return &memS3{
		objects: map[string][]byte{},
		cors:    map[string][]types.CORSRule{},
	}
}

func key(bucket, object *string) string {
	return aws.ToString(bucket) + "/" + aws.ToString(object)
}

func (m *memS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[key(in.Bucket, in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.objects[key(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	var body io.Reader = bytes.NewReader(data)
	if m.bodyErr != nil {
		body = io.MultiReader(body, iotest.ErrReader(m.bodyErr))
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(body)}, nil
}

func (m *memS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, key(in.Bucket, in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *memS3) PutBucketCors(_ context.Context, in *s3.PutBucketCorsInput, _ ...func(*s3.Options)) (*s3.PutBucketCorsOutput, error) {
	m.cors[aws.ToString(in.Bucket)] = in.CORSConfiguration.CORSRules
	return &s3.PutBucketCorsOutput{}, nil
}

func (m *memS3) GetBucketCors(_ context.Context, in *s3.GetBucketCorsInput, _ ...func(*s3.Options)) (*s3.GetBucketCorsOutput, error) {
	return &s3.GetBucketCorsOutput{CORSRules: m.cors[aws.ToString(in.Bucket)]}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{
		URL:    "https://storage.test/" + key(in.Bucket, in.Key) + "?X-Amz-Signature=sig",
		Method: http.MethodGet,
	}, nil
}

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestS3Storage_UploadDownloadRoundTrip(t *testing.T) {
	mem := newMemS3()
	downloadDir := t.TempDir()
	st := newS3Storage(mem, fakePresigner{}, "z-sports-history", downloadDir)

	content := []byte(`{"data":[],"layout":{"paper_bgcolor":"rgba(0,0,0,0)"}}`)
	localPath := writeTempFile(t, "activity_counts.json", content)

	objectName, err := st.UploadFile(context.Background(), localPath, "", "")
	require.NoError(t, err)
	assert.Equal(t, "activity_counts.json", objectName)
	assert.Contains(t, mem.objects, "z-sports-history/activity_counts.json")

	downloaded, err := st.DownloadFile(context.Background(), objectName, "", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(downloadDir, "activity_counts.json"), downloaded)

	got, err := os.ReadFile(downloaded)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestS3Storage_ExplicitBucketAndObject(t *testing.T) {
	mem := newMemS3()
	st := newS3Storage(mem, fakePresigner{}, "", "")

	localPath := writeTempFile(t, "a.csv", []byte("x,y\n"))
	objectName, err := st.UploadFile(context.Background(), localPath, "other", "exports/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "exports/a.csv", objectName)
	assert.Contains(t, mem.objects, "other/exports/a.csv")

	target := filepath.Join(t.TempDir(), "nested", "dir", "a.csv")
	_, err = st.DownloadFile(context.Background(), "exports/a.csv", "other", target)
	require.NoError(t, err)
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(got))
}

func TestS3Storage_ConfigurationErrors(t *testing.T) {
	mem := newMemS3()
	st := newS3Storage(mem, fakePresigner{}, "", "")
	ctx := context.Background()

	_, err := st.UploadFile(ctx, "/does/not/matter.json", "", "")
	assert.ErrorIs(t, err, ErrNoBucket)

	_, err = st.DownloadFile(ctx, "x.json", "", "/tmp/x.json")
	assert.ErrorIs(t, err, ErrNoBucket)

	_, err = st.DownloadFile(ctx, "x.json", "bucket", "")
	assert.ErrorIs(t, err, ErrNoLocalPath)

	assert.ErrorIs(t, st.SetCORS(ctx, CORSRule{}, ""), ErrNoBucket)
	_, err = st.GetCORS(ctx, "")
	assert.ErrorIs(t, err, ErrNoBucket)
}

func TestS3Storage_TransportErrorPropagates(t *testing.T) {
	mem := newMemS3()
	mem.err = errors.New("connection reset")
	st := newS3Storage(mem, fakePresigner{}, "bucket", t.TempDir())

	localPath := writeTempFile(t, "a.json", []byte("{}"))
	_, err := st.UploadFile(context.Background(), localPath, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, mem.err)

	_, err = st.DownloadFile(context.Background(), "a.json", "", "")
	assert.ErrorIs(t, err, mem.err)
}

func TestS3Storage_DownloadFailsOnTruncatedBody(t *testing.T) {
	mem := newMemS3()
	mem.objects["bucket/a.json"] = []byte(`{"data":`)
	mem.bodyErr = errors.New("unexpected EOF from peer")
	st := newS3Storage(mem, fakePresigner{}, "bucket", t.TempDir())

	path, err := st.DownloadFile(context.Background(), "a.json", "", "")
	assert.ErrorIs(t, err, mem.bodyErr)
	assert.Empty(t, path)
}

func TestS3Storage_CORS(t *testing.T) {
	mem := newMemS3()
	st := newS3Storage(mem, fakePresigner{}, "site", "")
	ctx := context.Background()

	err := st.SetCORS(ctx, CORSRule{
		AllowedOrigins: []string{"https://example.com"},
		AllowedMethods: []string{"GET", "HEAD"},
	}, "")
	require.NoError(t, err)

	rules, err := st.GetCORS(ctx, "")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"https://example.com"}, rules[0].AllowedOrigins)
	assert.Equal(t, []string{"GET", "HEAD"}, rules[0].AllowedMethods)
	assert.Equal(t, []string{"*"}, rules[0].AllowedHeaders)
	assert.Equal(t, []string{"ETag"}, rules[0].ExposeHeaders)
	assert.EqualValues(t, 3000, rules[0].MaxAgeSeconds)

	// replaced, not appended
	require.NoError(t, st.SetCORS(ctx, CORSRule{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Content-Type"},
	}, ""))
	rules, err = st.GetCORS(ctx, "")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"Content-Type"}, rules[0].AllowedHeaders)
}

func TestS3Storage_PresignAndDelete(t *testing.T) {
	mem := newMemS3()
	st := newS3Storage(mem, fakePresigner{}, "site", "")
	mem.objects["site/plot.json"] = []byte("{}")

	url, err := st.GeneratePresignedDownloadURL(context.Background(), "plot.json", "", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "site/plot.json")

	require.NoError(t, st.DeleteObject(context.Background(), "plot.json", ""))
	assert.NotContains(t, mem.objects, "site/plot.json")
}
