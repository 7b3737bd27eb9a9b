package sheets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	UploadTypeUpload = "upload"
	UploadTypeEmail  = "email"

	defaultEmailSubject = "Purchase Order"
	defaultEmailBody    = "Please find attached PO."
)

// UploadRequest describes a file handed to the gateway's upload action. With
// UploadType "email" and an Email set, the gateway also mails the file.
type UploadRequest struct {
	FileName     string `validate:"required"`
	MimeType     string `validate:"required"`
	FolderID     string `validate:"required"`
	UploadType   string `validate:"omitempty,oneof=upload email"`
	Email        string `validate:"omitempty,email"`
	EmailSubject string
	EmailBody    string
}

// UploadFile reads content, ships it base64-encoded and returns the hosted URL.
// Size and type limits are the caller's job.
func (c *Client) UploadFile(ctx context.Context, req UploadRequest, content io.Reader) (fileURL string, err error) {
	ctx, span := tracer.Start(ctx, "sheets.UploadFile", trace.WithAttributes(
		attribute.String("upload.file", req.FileName),
		attribute.String("upload.type", req.UploadType),
	))
	defer func() { endSpan(span, err) }()

	if err := c.validate.Struct(req); err != nil {
		return "", &UploadError{FileName: req.FileName, Reason: "invalid upload request", Err: err}
	}
	if content == nil {
		return "", &UploadError{FileName: req.FileName, Reason: "no file content"}
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", &UploadError{FileName: req.FileName, Reason: "failed to read file", Err: err}
	}
	span.SetAttributes(attribute.Int("upload.bytes", len(data)))

	uploadType := req.UploadType
	if uploadType == "" {
		uploadType = UploadTypeUpload
	}
	fields := []formField{
		{"action", "upload"},
		{"fileName", req.FileName},
		{"mimeType", req.MimeType},
		{"fileData", base64.StdEncoding.EncodeToString(data)},
		{"folderId", req.FolderID},
		{"uploadType", uploadType},
	}
	if uploadType == UploadTypeEmail && strings.TrimSpace(req.Email) != "" {
		subject := req.EmailSubject
		if subject == "" {
			subject = defaultEmailSubject
		}
		body := req.EmailBody
		if body == "" {
			body = defaultEmailBody
		}
		fields = append(fields,
			formField{"email", req.Email},
			formField{"emailSubject", subject},
			formField{"emailBody", body},
		)
	}

	form, contentType, err := encodeForm(fields)
	if err != nil {
		return "", &UploadError{FileName: req.FileName, Reason: "encode form", Err: err}
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, c.endpoint(nil), form)
	if err != nil {
		return "", &UploadError{FileName: req.FileName, Reason: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", contentType)

	status, raw, err := c.do(httpReq)
	if err != nil {
		return "", &UploadError{FileName: req.FileName, Status: status, Reason: "Failed to upload file", Err: err}
	}
	if !okStatus(status) {
		return "", &UploadError{FileName: req.FileName, Status: status, Reason: "Failed to upload file"}
	}

	var env uploadEnvelope
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return "", &UploadError{FileName: req.FileName, Status: status, Reason: "unparseable response", Err: err}
	}
	if !env.Success {
		return "", &UploadError{FileName: req.FileName, Status: status, Reason: gatewayReason(env.Error, env.Message, "Failed to upload data")}
	}
	if env.FileURL == "" {
		return "", &UploadError{FileName: req.FileName, Status: status, Reason: "gateway returned no file url"}
	}
	return env.FileURL, nil
}
