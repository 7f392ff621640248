package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves the path-style Put/Get/Delete subset used by S3Storage.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		return respond(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`),
				http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return respond(http.StatusOK, body, http.Header{
			"Content-Type":   {f.types[key]},
			"Content-Length": {strconv.Itoa(len(body))},
		}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil, http.Header{}), nil
	}
	return respond(http.StatusNotImplemented, nil, http.Header{}), nil
}

func respond(status int, body []byte, header http.Header) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: header}
}

func newFakeS3Storage(t *testing.T, prefix string) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte), types: make(map[string]string)}
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	store := NewS3StorageFromConfig(awsCfg, S3Config{
		Bucket:    "exports",
		Endpoint:  "https://s3.test.local",
		PathStyle: true,
		Prefix:    prefix,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
	})
	return store, fake
}

func TestS3StorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, fake := newFakeS3Storage(t, "crm")

	require.NoError(t, store.Save(ctx, "students/job-1.csv", []byte("a,b\n"), "text/csv"))
	assert.Contains(t, fake.objects, "exports/crm/students/job-1.csv")
	assert.Equal(t, "text/csv", fake.types["exports/crm/students/job-1.csv"])

	rc, err := store.Open(ctx, "students/job-1.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a,b\n", string(data))

	require.NoError(t, store.Delete(ctx, "students/job-1.csv"))
	assert.Empty(t, fake.objects)

	_, err = store.Open(ctx, "students/job-1.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StorageRejectsEscapingKeys(t *testing.T) {
	store, _ := newFakeS3Storage(t, "")
	err := store.Save(context.Background(), "../other-bucket/x", []byte("x"), "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), S3Config{Region: "us-east-1"})
	require.Error(t, err)
}
