package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "tenants/o/e/production/set1/photo.jpg", Key("tenants/o/e", KindProduction, "set1", "photo.jpg"))
	assert.Equal(t, "tenants/o/e/photos/p1/passwd", Key("/tenants/o/e/", KindPhotos, "p1", "../../etc/passwd"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"IMG 0001.JPG", "IMG_0001.JPG"},
		{"..", "file"},
		{"", "file"},
		{`C:\Users\guest\me.png`, "me.png"},
		{"héllo wörld.png", "h_llo_w_rld.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}

	long := strings.Repeat("a", 300) + ".jpeg"
	got := SanitizeFilename(long)
	assert.Len(t, got, maxFilenameLen)
	assert.True(t, strings.HasSuffix(got, ".jpeg"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor("a.PNG", ""))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpg", "application/octet-stream"))
	assert.Equal(t, "image/heic", ContentTypeFor("a.heic", "image/heic"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.bin", ""))
}

func TestBatchResultMerge(t *testing.T) {
	r := BatchResult{Succeeded: []string{"a"}}
	r.Merge(BatchResult{Succeeded: []string{"b"}, Failed: []string{"c"}})

	assert.Equal(t, []string{"a", "b"}, r.Succeeded)
	assert.Equal(t, []string{"c"}, r.Failed)
	assert.False(t, r.OK())
}
