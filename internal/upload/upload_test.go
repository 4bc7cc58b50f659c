package upload

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

type fakeUploadAPI struct {
	err    error
	called int
}

func (f *fakeUploadAPI) UploadAttachment(_ context.Context, file api.UploadFile) (*api.Attachment, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return &api.Attachment{Url: "https://cdn.example.com/" + file.Name, Size: file.Size}, nil
}

func newTestUploader(apiErr error) (*Uploader, *fakeUploadAPI) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	f := &fakeUploadAPI{err: apiErr}
	return NewUploader(f, logger), f
}

func TestUploader_Validate(t *testing.T) {
	u, _ := newTestUploader(nil)

	t.Run("oversized file rejected", func(t *testing.T) {
		f := api.UploadFile{Name: "big.png", MIME: "image/png", Size: MaxFileSize + 1}
		assert.ErrorIs(t, u.Validate(f, api.KindImage), errcode.ErrFileTooLarge)
	})

	t.Run("image kind requires image mime", func(t *testing.T) {
		f := api.UploadFile{Name: "doc.pdf", MIME: "application/pdf", Size: 100}
		assert.ErrorIs(t, u.Validate(f, api.KindImage), errcode.ErrFileType)
	})

	t.Run("document allow-list", func(t *testing.T) {
		ok := []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}
		for _, mime := range ok {
			f := api.UploadFile{Name: "file", MIME: mime, Size: 100}
			assert.NoError(t, u.Validate(f, api.KindDocument), mime)
		}

		f := api.UploadFile{Name: "pic.png", MIME: "image/png", Size: 100}
		assert.ErrorIs(t, u.Validate(f, api.KindDocument), errcode.ErrFileType)
	})

	t.Run("image accepted", func(t *testing.T) {
		f := api.UploadFile{Name: "pic.jpg", MIME: "image/jpeg", Size: 100}
		assert.NoError(t, u.Validate(f, api.KindImage))
	})
}

func TestUploader_Upload(t *testing.T) {
	t.Run("success fills in kind and name", func(t *testing.T) {
		u, f := newTestUploader(nil)

		att, err := u.Upload(context.Background(), api.UploadFile{Name: "pic.jpg", MIME: "image/jpeg", Size: 100}, api.KindImage)
		require.NoError(t, err)
		assert.Equal(t, 1, f.called)
		assert.Equal(t, api.KindImage, att.Type)
		assert.Equal(t, "pic.jpg", att.Name)
		assert.Equal(t, "https://cdn.example.com/pic.jpg", att.Url)
	})

	t.Run("rejected file never reaches the api", func(t *testing.T) {
		u, f := newTestUploader(nil)

		_, err := u.Upload(context.Background(), api.UploadFile{Name: "huge.jpg", MIME: "image/jpeg", Size: MaxFileSize + 1}, api.KindImage)
		assert.ErrorIs(t, err, errcode.ErrFileTooLarge)
		assert.Zero(t, f.called)
	})

	t.Run("transport failure wraps upload error", func(t *testing.T) {
		u, _ := newTestUploader(errors.New("boom"))

		_, err := u.Upload(context.Background(), api.UploadFile{Name: "pic.jpg", MIME: "image/jpeg", Size: 100}, api.KindImage)
		assert.ErrorIs(t, err, errcode.ErrUploadFailed)
	})
}

func TestKindForMIME(t *testing.T) {
	assert.Equal(t, api.KindImage, KindForMIME("image/png"))
	assert.Equal(t, api.KindDocument, KindForMIME("application/pdf"))
	assert.Equal(t, api.KindDocument, KindForMIME(""))
}
