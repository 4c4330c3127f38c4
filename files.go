package gptifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dsw7/gptifier/internal/serialization"
)

// FilePurposeFineTune is the purpose of files holding fine-tuning data.
const FilePurposeFineTune = "fine-tune"

// ListFiles lists the files uploaded to the organization.
//
// https://platform.openai.com/docs/api-reference/files/list
func (c *Client) ListFiles(ctx context.Context) (serialization.List[File], error) {
	ex, err := c.do(ctx, request{method: http.MethodGet, path: "/files"})
	if err != nil {
		return serialization.List[File]{}, err
	}
	return decodeList(ex, serialization.ObjectFile, serialization.UnpackFile)
}

// UploadFile uploads the contents of body under the given name.
//
// # CURL
//
//	$ curl "https://api.openai.com/v1/files" \
//	 -H "Authorization: Bearer ..." \
//	 -F purpose="fine-tune" \
//	 -F file='@mydata.jsonl'
//
// https://platform.openai.com/docs/api-reference/files/create
func (c *Client) UploadFile(ctx context.Context, name, purpose string, body io.Reader) (File, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		return File{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, body); err != nil {
		return File{}, fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := w.WriteField("purpose", purpose); err != nil {
		return File{}, fmt.Errorf("failed to write purpose field: %w", err)
	}
	if err := w.Close(); err != nil {
		return File{}, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	ex, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/files",
		body:        b.Bytes(),
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return File{}, err
	}
	return decodeOne(ex, serialization.ObjectFile, serialization.UnpackFile)
}

// DeleteFile deletes an uploaded file.
//
// https://platform.openai.com/docs/api-reference/files/delete
func (c *Client) DeleteFile(ctx context.Context, id string) (Deletion, error) {
	ex, err := c.do(ctx, request{method: http.MethodDelete, path: "/files/" + url.PathEscape(id)})
	if err != nil {
		return Deletion{}, err
	}
	return decodeOne(ex, serialization.ObjectFile, serialization.UnpackDeletion)
}
