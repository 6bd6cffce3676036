package s3

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
}

func TestUploader_Upload(t *testing.T) {
	putter := &fakePutter{}
	u := newUploader(putter, Config{Bucket: "covers", PublicBaseURL: "https://cdn.example.com/"})
	u.now = fixedNow

	url, err := u.Upload(context.Background(), ports.CoverImage{
		Data:        []byte("png-bytes"),
		ContentType: "image/png",
		Filename:    "Cover.PNG",
	}, "book_exchange/coverImage")
	require.NoError(t, err)

	require.NotNil(t, putter.input)
	key := *putter.input.Key
	assert.Equal(t, "covers", *putter.input.Bucket)
	assert.Equal(t, "image/png", *putter.input.ContentType)
	assert.Regexp(t, `^book_exchange/coverImage/2024/03/07/[0-9a-f-]{36}\.png$`, key)
	assert.Equal(t, "https://cdn.example.com/"+key, url)
	assert.Equal(t, []byte("png-bytes"), putter.body)
}

func TestUploader_Upload_Error(t *testing.T) {
	putter := &fakePutter{err: errors.New("bucket unavailable")}
	u := newUploader(putter, Config{Bucket: "covers", PublicBaseURL: "https://cdn.example.com"})

	url, err := u.Upload(context.Background(), ports.CoverImage{Data: []byte("x"), ContentType: "image/jpeg"}, "covers")
	require.Error(t, err)
	assert.Empty(t, url)
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/covers", defaultBaseURL(Config{Endpoint: "http://localhost:9000/", Bucket: "covers"}))
	assert.Equal(t, "https://covers.s3.us-east-1.amazonaws.com", defaultBaseURL(Config{Region: "us-east-1", Bucket: "covers"}))
}
