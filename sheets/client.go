package sheets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

var tracer = otel.Tracer("indent-tracker/sheets")

// maxResponseBytes bounds what we read back from the gateway.
const maxResponseBytes = 32 << 20

// Client talks to the spreadsheet web app. Reads are GET ?sheetName=, writes and
// uploads are multipart POSTs to the same URL.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	logger   *logrus.Logger
	validate *validator.Validate
}

// NewClient builds a gateway client. A zero timeout leaves requests bounded only
// by their context.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("gateway url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("gateway url must be absolute")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
		validate: validator.New(),
	}, nil
}

type formField struct {
	name  string
	value string
}

func encodeForm(fields []formField) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func (c *Client) endpoint(query url.Values) string {
	u := *c.baseURL
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok && cid != "" {
		req.Header.Set("X-Correlation-Id", cid)
	}
	return req, nil
}

// do executes req and returns status and body. Transport failures come back as err.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func okStatus(status int) bool {
	return status >= 200 && status < 300
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
