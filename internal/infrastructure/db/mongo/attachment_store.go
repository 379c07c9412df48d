package mongo

import (
	"bytes"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

const maxAttachmentBytes = 10 * 1024 * 1024

// AttachmentStore keeps PDF attachments in GridFS and serves them back by
// id. Legacy bulletins that embedded the PDF as an inline data URI bypass
// this store entirely.
type AttachmentStore struct {
	bucket *gridfs.Bucket
}

func NewAttachmentStore(db *mongo.Database) (*AttachmentStore, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &AttachmentStore{bucket: bucket}, nil
}

// Upload stores a PDF payload and returns its file id.
func (s *AttachmentStore) Upload(filename string, data []byte) (string, error) {
	if len(data) > maxAttachmentBytes {
		return "", domain.ErrPayloadTooLarge
	}
	id, err := s.bucket.UploadFromStream(filename, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", mapError(err))
	}
	return id.Hex(), nil
}

// Download retrieves a stored PDF by id.
func (s *AttachmentStore) Download(id string) ([]byte, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBulletinNotFound
	}

	var buf bytes.Buffer
	if _, err := s.bucket.DownloadToStream(oid, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrBulletinNotFound
		}
		return nil, fmt.Errorf("download attachment: %w", mapError(err))
	}
	return buf.Bytes(), nil
}
