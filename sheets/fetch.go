package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bitbucket.org/mmdatafocus/indent_tracker/config"
)

// FetchSheet reads one sheet. MASTER comes back aggregated in Master; every
// other sheet comes back as normalized rows with blank-timestamp rows dropped.
func (c *Client) FetchSheet(ctx context.Context, name SheetName) (res FetchResult, err error) {
	ctx, span := tracer.Start(ctx, "sheets.FetchSheet", trace.WithAttributes(
		attribute.String("sheet.name", string(name)),
	))
	defer func() { endSpan(span, err) }()

	if !name.Valid() {
		return FetchResult{}, &FetchError{Sheet: name, Reason: "unknown sheet"}
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(url.Values{"sheetName": {string(name)}}), nil)
	if err != nil {
		return FetchResult{}, &FetchError{Sheet: name, Reason: "build request", Err: err}
	}

	status, body, err := c.do(req)
	if err != nil {
		return FetchResult{}, &FetchError{Sheet: name, Status: status, Reason: "Failed to fetch data", Err: err}
	}
	if !okStatus(status) {
		return FetchResult{}, &FetchError{Sheet: name, Status: status, Reason: "Failed to fetch data"}
	}

	var env fetchEnvelope
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return FetchResult{}, &FetchError{Sheet: name, Status: status, Reason: "unreadable response", Err: err}
	}
	if !env.Success {
		return FetchResult{}, &FetchError{
			Sheet:  name,
			Status: status,
			Reason: gatewayReason(env.Error, env.Message, "Something went wrong when parsing data"),
		}
	}

	if name == Master {
		master, err := decodeMasterOptions(env.Options)
		if err != nil {
			return FetchResult{}, &FetchError{Sheet: name, Status: status, Reason: "unreadable MASTER options", Err: err}
		}
		span.SetAttributes(attribute.Int("master.vendors", len(master.Vendors)))
		return FetchResult{Master: master}, nil
	}

	rows := dropBlankTimestamps(env.Rows)
	normalizeRows(name, rows)
	span.SetAttributes(attribute.Int("sheet.rows", len(rows)))
	if dropped := len(env.Rows) - len(rows); dropped > 0 {
		c.logger.WithFields(logrus.Fields{
			"module":  "sheets",
			"sheet":   string(name),
			"dropped": dropped,
		}).Debug("dropped rows with blank timestamp")
	}
	return FetchResult{Rows: rows}, nil
}

// dropBlankTimestamps removes rows whose timestamp is the empty string. Rows
// without a timestamp column at all are kept.
func dropBlankTimestamps(in []Row) []Row {
	out := make([]Row, 0, len(in))
	for _, r := range in {
		if r == nil {
			continue
		}
		if v, ok := r["timestamp"]; ok {
			if s, isString := v.(string); isString && s == "" {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// FetchAll reads the given sheets one after another. A failed sheet is logged
// and left out of the result; the returned error joins every failure.
func (c *Client) FetchAll(ctx context.Context, names []SheetName) (map[SheetName]FetchResult, error) {
	out := make(map[SheetName]FetchResult, len(names))
	var errs []error
	for _, n := range names {
		res, err := c.FetchSheet(ctx, n)
		if err != nil {
			config.LogError(c.logger, "sheets", "FetchAll", "FetchSheet", string(n), err)
			errs = append(errs, err)
			continue
		}
		out[n] = res
	}
	return out, errors.Join(errs...)
}
