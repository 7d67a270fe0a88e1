package uploads

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSigner records sign requests and answers with a deterministic URL.
type fakeSigner struct {
	calls []struct {
		Bucket, Object, Method string
	}
	failFor map[string]bool
}

func (f *fakeSigner) SignObjectURL(ctx context.Context, bucket, object, method string, ttl time.Duration) (string, error) {
	f.calls = append(f.calls, struct{ Bucket, Object, Method string }{bucket, object, method})
	if f.failFor[bucket] {
		return "", assert.AnError
	}
	return "https://signed.example.com/" + bucket + "/" + object + "?m=" + method, nil
}

func TestGetUploadURL(t *testing.T) {
	signer := &fakeSigner{}
	s := &Service{Client: signer, PrivateDir: "/private-bucket/.private"}

	res, err := s.GetUploadURL(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.UploadURL, "https://signed.example.com/private-bucket/")
	assert.Contains(t, res.UploadURL, "m="+http.MethodPut)
	assert.Contains(t, res.ObjectPath, "/objects/uploads/")

	require.Len(t, signer.calls, 1)
	assert.Equal(t, "private-bucket", signer.calls[0].Bucket)
}

func TestGetUploadURL_Disabled(t *testing.T) {
	s := &Service{Client: &fakeSigner{}}
	_, err := s.GetUploadURL(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

// TestResolveObjectURL_SearchOrder: the private directory is tried first,
// then each public search path in order.
func TestResolveObjectURL_SearchOrder(t *testing.T) {
	signer := &fakeSigner{failFor: map[string]bool{"private-bucket": true}}
	s := &Service{
		Client:            signer,
		PrivateDir:        "/private-bucket/.private",
		PublicSearchPaths: []string{"/public-bucket/assets"},
	}

	url, err := s.ResolveObjectURL(context.Background(), "/objects/uploads/abc123")
	require.NoError(t, err)
	assert.Contains(t, url, "public-bucket")

	require.Len(t, signer.calls, 2)
	assert.Equal(t, "private-bucket", signer.calls[0].Bucket)
	assert.Equal(t, ".private/uploads/abc123", signer.calls[0].Object)
	assert.Equal(t, "public-bucket", signer.calls[1].Bucket)
	assert.Equal(t, "assets/uploads/abc123", signer.calls[1].Object)
	assert.Equal(t, http.MethodGet, signer.calls[1].Method)
}

func TestResolveObjectURL_Empty(t *testing.T) {
	s := &Service{Client: &fakeSigner{}, PrivateDir: "/private-bucket/.private"}
	_, err := s.ResolveObjectURL(context.Background(), "/objects/")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNormalizeObjectPath(t *testing.T) {
	s := &Service{PrivateDir: "/private-bucket/.private"}

	cases := []struct {
		in   string
		want string
	}{
		{"/objects/uploads/abc", "/objects/uploads/abc"},
		{"https://storage.example.com/private-bucket/.private/uploads/abc", "/objects/uploads/abc"},
		{"https://storage.example.com/other-bucket/uploads/abc", "https://storage.example.com/other-bucket/uploads/abc"},
		{"not a url at all", "not a url at all"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.NormalizeObjectPath(tc.in), tc.in)
	}
}

func TestSplitObjectPath(t *testing.T) {
	bucket, object, err := splitObjectPath("/bucket/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "a/b/c", object)

	_, _, err = splitObjectPath("/bucket-only")
	assert.Error(t, err)
}
