package bucket

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseB64Image(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	img, err := parseB64Image("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, contentTypePNG, img.contentType)
	assert.Equal(t, []byte("png-bytes"), img.content)

	_, err = parseB64Image("not-a-data-url")
	assert.Error(t, err)

	_, err = parseB64Image("data:application/pdf;base64," + payload)
	assert.Error(t, err, "non-image content types are rejected")

	_, err = parseB64Image("data:image/png;base64,%%%")
	assert.Error(t, err)
}

func TestConstructFullPath(t *testing.T) {
	b := &Bucket{Config: &Config{
		BaseFolder:   "flags",
		S3BucketName: "assets",
		S3Endpoint:   "ams3.digitaloceanspaces.com",
	}}

	fp := b.constructFullPath("country", "de", "png")
	assert.Equal(t, "flags/country/de.png", fp)
	assert.Equal(t, "https://assets.ams3.digitaloceanspaces.com/flags/country/de.png", b.publicURL(fp))
}
