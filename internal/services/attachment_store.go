package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"

	"github.com/minio/minio-go/v7"

	"complaint-portal/internal/models"
)

// Only these upload types are accepted, mirroring what the student-facing
// upload middleware enforces.
var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// AttachmentStore writes admin remark attachments to the object store and
// returns their bucket-relative keys. Keys are random hex names so original
// filenames never reach storage.
type AttachmentStore struct {
	client *minio.Client
	bucket string
}

func NewAttachmentStore(client *minio.Client, bucket string) *AttachmentStore {
	return &AttachmentStore{client: client, bucket: bucket}
}

func (s *AttachmentStore) SaveAll(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		ext, ok := allowedUploadTypes[contentType]
		if !ok {
			return nil, fmt.Errorf("%w: file type %q is not allowed", models.ErrValidation, contentType)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, err
		}

		key := randomObjectName() + ext
		_, err = s.client.PutObject(ctx, s.bucket, key, f, fh.Size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		f.Close()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func randomObjectName() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
