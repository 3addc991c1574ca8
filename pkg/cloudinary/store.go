package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ObjectStore maps bucket/path onto cloudinary folder/public id.
type ObjectStore struct {
	cld *cld.Cloudinary
}

func NewObjectStore(cloud *cld.Cloudinary) *ObjectStore {
	return &ObjectStore{cld: cloud}
}

// PublicID is the cloudinary id of bucket/path; the extension is dropped since
// cloudinary appends the delivery format itself.
func PublicID(bucket, p string) string {
	p = strings.TrimSuffix(p, path.Ext(p))
	if bucket == "" {
		return p
	}
	return strings.TrimSuffix(bucket, "/") + "/" + strings.TrimPrefix(p, "/")
}

func (s *ObjectStore) Upload(ctx context.Context, bucket, p string, blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", errors.New("empty upload")
	}

	overwrite := false
	res, err := s.cld.Upload.Upload(ctx, bytes.NewReader(blob), uploader.UploadParams{
		PublicID:     PublicID(bucket, p),
		ResourceType: "image",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", p, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", p, res.Error.Message)
	}
	return res.SecureURL, nil
}

// Remove deletes every path; a missing object is not an error.
func (s *ObjectStore) Remove(ctx context.Context, bucket string, paths []string) error {
	var errs []error
	for _, p := range paths {
		res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     PublicID(bucket, p),
			ResourceType: "image",
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
			continue
		}
		if res.Result != "ok" && res.Result != "not found" {
			errs = append(errs, fmt.Errorf("remove %s: %s", p, res.Result))
		}
	}
	return errors.Join(errs...)
}
