// Package upload validates local files against the attachment policy and
// turns them into hosted references.
package upload

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// MaxFileSize is the upload size ceiling
const MaxFileSize = 10 << 20 // 10MB

// documentMIMEs is the allow-list for document attachments
var documentMIMEs = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// UploadAPI is the slice of the REST adapter the uploader needs
type UploadAPI interface {
	UploadAttachment(ctx context.Context, file api.UploadFile) (*api.Attachment, error)
}

// Uploader enforces the attachment policy before handing files to the API
type Uploader struct {
	api UploadAPI
	log *logrus.Entry
}

// NewUploader creates an uploader
func NewUploader(uploadAPI UploadAPI, logger *logrus.Logger) *Uploader {
	return &Uploader{
		api: uploadAPI,
		log: logger.WithField("component", "upload"),
	}
}

// KindForMIME classifies a file by its MIME type
func KindForMIME(mime string) api.AttachmentKind {
	if strings.HasPrefix(mime, "image/") {
		return api.KindImage
	}
	return api.KindDocument
}

// Validate rejects files that break the policy. Errors are per-file and
// reported to the caller, never thrown past it.
func (u *Uploader) Validate(file api.UploadFile, kind api.AttachmentKind) error {
	if file.Size > MaxFileSize {
		return errcode.ErrFileTooLarge
	}

	switch kind {
	case api.KindImage:
		if !strings.HasPrefix(file.MIME, "image/") {
			return errcode.ErrFileType
		}
	case api.KindDocument:
		if !documentMIMEs[file.MIME] {
			return errcode.ErrFileType
		}
	default:
		return errcode.ErrInvalidParam
	}

	return nil
}

// Upload validates and uploads one file. Failures belong to this file
// alone; the caller decides what to do about siblings.
func (u *Uploader) Upload(ctx context.Context, file api.UploadFile, kind api.AttachmentKind) (*api.Attachment, error) {
	if err := u.Validate(file, kind); err != nil {
		u.log.Warnf("attachment rejected: name=%s, error=%v", file.Name, err)
		return nil, err
	}

	att, err := u.api.UploadAttachment(ctx, file)
	if err != nil {
		u.log.Errorf("attachment upload failed: name=%s, error=%v", file.Name, err)
		return nil, errcode.ErrUploadFailed.Wrap(err)
	}

	if att.Type == "" {
		att.Type = kind
	}
	if att.Name == "" {
		att.Name = file.Name
	}
	return att, nil
}
