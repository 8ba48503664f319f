package bucket

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

type b64Image struct {
	contentType string
	content     []byte
}

// parseB64Image splits a "data:<mediatype>;base64,<data>" string into its
// content type and decoded bytes.
func parseB64Image(rawB64Image string) (*b64Image, error) {
	const base64Prefix = ";base64,"
	parts := strings.Split(rawB64Image, base64Prefix)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid base64 image format: expected 'data:[mediatype];base64,[data]'")
	}

	contentType := strings.TrimPrefix(parts[0], "data:")
	switch contentType {
	case contentTypeJPEG, contentTypePNG, contentTypeSVG, contentTypeWEBP:
	default:
		return nil, fmt.Errorf("unsupported image content type: %s", contentType)
	}

	content, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return &b64Image{contentType: contentType, content: content}, nil
}

// UploadFlagImage stores a base64-encoded flag image under the module folder
// and returns its public URL.
func (b *Bucket) UploadFlagImage(ctx context.Context, rawB64Image, folder, imageName string) (string, error) {
	img, err := parseB64Image(rawB64Image)
	if err != nil {
		return "", err
	}

	fp := b.constructFullPath(folder, imageName, fileExtensionFromContentType(img.contentType))
	r := bytes.NewReader(img.content)

	_, err = b.Client.PutObject(ctx, b.Config.S3BucketName, fp, r,
		int64(r.Len()), minio.PutObjectOptions{
			ContentType:  img.contentType,
			CacheControl: "max-age=31536000",
			UserMetadata: map[string]string{"x-amz-acl": "public-read"},
		},
	)
	if err != nil {
		return "", fmt.Errorf("error putting object: %w", err)
	}

	return b.publicURL(fp), nil
}
