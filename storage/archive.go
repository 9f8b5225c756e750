package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const rejectedPrefix = "pss/rejected"

// PayloadArchiver keeps raw PSS frames that could not be processed so they can be
// replayed or inspected after the event.
type PayloadArchiver struct {
	uploader FileUploader
	now      func() time.Time
}

func NewPayloadArchiver(uploader FileUploader) *PayloadArchiver {
	return &PayloadArchiver{uploader: uploader, now: time.Now}
}

// Archive uploads raw under pss/rejected/<date>/<reason>-<uuid>.<ext>.
// Binary frames are stored as MessagePack, everything else as JSON.
func (a *PayloadArchiver) Archive(ctx context.Context, reason string, raw []byte, binary bool) (*UploadResult, error) {
	ext, contentType := "json", "application/json"
	if binary {
		ext, contentType = "msgpack", "application/msgpack"
	}
	key := fmt.Sprintf("%s/%s/%s-%s.%s",
		rejectedPrefix, a.now().UTC().Format("2006-01-02"), reason, uuid.NewString(), ext)

	res, err := a.uploader.Upload(ctx, key, contentType, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to archive rejected payload: %w", err)
	}
	return res, nil
}
