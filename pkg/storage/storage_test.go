package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyPattern = regexp.MustCompile(`^color_images/[0-9a-f-]{36}\.png$`)

func TestNewKey(t *testing.T) {
	a := NewKey("color_images", "Red Swatch.PNG")
	b := NewKey("color_images", "Red Swatch.PNG")
	assert.Regexp(t, keyPattern, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "review_images", filepath.Dir(NewKey("review_images", "noext")))
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), Options{Backend: "ftp"})
	assert.ErrorContains(t, err, "unknown storage backend")

	st, err := New(context.Background(), Options{LocalRoot: t.TempDir(), BaseURL: "/media"})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, st)
}

func TestLocalSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	st := NewLocal(root, "/media/")
	ctx := context.Background()

	obj, err := st.Save(ctx, "color_images", "red.png", strings.NewReader("pixels"), "image/png")
	require.NoError(t, err)
	assert.Regexp(t, keyPattern, obj.Key)
	assert.Equal(t, "/media/"+obj.Key, obj.URL)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(obj.Key)))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	require.NoError(t, st.Delete(ctx, obj.Key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(obj.Key)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, st.Delete(ctx, obj.Key), "deleting twice is fine")
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	obj, err := m.Save(context.Background(), "review_images", "a.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)
	data, ct, ok := m.Get(obj.Key)
	require.True(t, ok)
	assert.Equal(t, "x", string(data))
	assert.Equal(t, "image/jpeg", ct)

	require.NoError(t, m.Delete(context.Background(), obj.Key))
	assert.Zero(t, m.Len())
}

type fakeS3 struct {
	puts    map[string]string
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[*in.Bucket+"/"+*in.Key] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3SaveAndDelete(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}}
	st := &S3{client: fake, bucket: "boutique-media", baseURL: "https://cdn.example.com"}
	ctx := context.Background()

	obj, err := st.Save(ctx, "color_images", "red.png", strings.NewReader("pixels"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "pixels", fake.puts["boutique-media/"+obj.Key])
	assert.Equal(t, "https://cdn.example.com/"+obj.Key, obj.URL)

	require.NoError(t, st.Delete(ctx, obj.Key))
	assert.Equal(t, []string{obj.Key}, fake.deleted)
}

func TestCloudinaryPublicID(t *testing.T) {
	assert.Equal(t, "color_images/abc", publicID("color_images/abc.png"))
	assert.Equal(t, "color_images/abc", publicID("color_images/abc"))
}
