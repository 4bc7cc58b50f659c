package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// UploadFile is the local file handed to UploadAttachment
type UploadFile struct {
	Name string
	MIME string
	Size int64
	Data io.Reader
}

// UploadAttachment uploads a file and returns its hosted reference
func (c *Client) UploadAttachment(ctx context.Context, file UploadFile) (*Attachment, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+file.Name+`"`)
	header.Set("Content-Type", file.MIME)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, errcode.ErrUploadFailed.Wrap(err)
	}
	if _, err := io.Copy(part, file.Data); err != nil {
		return nil, errcode.ErrUploadFailed.Wrap(err)
	}
	if err := writer.Close(); err != nil {
		return nil, errcode.ErrUploadFailed.Wrap(err)
	}

	req := &protocol.Request{}
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.baseURL + "/attachments")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBody(body.Bytes())

	var w attachmentWire
	if err := c.do(ctx, req, &w); err != nil {
		return nil, err
	}

	return &Attachment{
		Type: AttachmentKind(w.Type),
		Url:  w.Url,
		Name: w.Name,
		Size: w.Size,
	}, nil
}
