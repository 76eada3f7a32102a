package aromai

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

const (
	uploadFileField = "file"
	uploadFileName  = "image.jpg"
	uploadFileType  = "image/jpeg"
)

func newBoundary() string {
	return "Boundary-" + strings.ToUpper(uuid.NewString())
}

// encodeMediaUpload writes the three upload parts in the order the backend
// expects: file, MediaName, FileType. Each part is framed by --boundary CRLF
// and the body ends with --boundary-- CRLF.
func encodeMediaUpload(boundary string, req MediaRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, "", fmt.Errorf("set boundary: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFileField, uploadFileName))
	header.Set("Content-Type", uploadFileType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(req.JPEGData); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	if err := w.WriteField("MediaName", req.MediaName); err != nil {
		return nil, "", fmt.Errorf("write MediaName: %w", err)
	}
	if err := w.WriteField("FileType", string(req.FileType)); err != nil {
		return nil, "", fmt.Errorf("write FileType: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
