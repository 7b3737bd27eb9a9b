package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostToSheet sends a batch of partial rows to the gateway. Updates and deletes
// need rowIndex or a business key on every row so the gateway can find it.
// The decoded reply is returned as-is.
func (c *Client) PostToSheet(ctx context.Context, rows []Row, action Action, sheet SheetName) (resp PostResponse, err error) {
	ctx, span := tracer.Start(ctx, "sheets.PostToSheet", trace.WithAttributes(
		attribute.String("sheet.name", string(sheet)),
		attribute.String("sheet.action", string(action)),
		attribute.Int("sheet.rows", len(rows)),
	))
	defer func() { endSpan(span, err) }()

	if !sheet.Valid() || sheet == Master {
		return nil, &PostError{Sheet: sheet, Action: action, Reason: "sheet does not accept writes"}
	}
	if !action.Valid() {
		return nil, &PostError{Sheet: sheet, Action: action, Reason: "unknown action"}
	}
	if len(rows) == 0 {
		return nil, &PostError{Sheet: sheet, Action: action, Reason: "no rows to send"}
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return nil, &PostError{Sheet: sheet, Action: action, Reason: "encode rows", Err: err}
	}
	body, contentType, err := encodeForm([]formField{
		{"action", string(action)},
		{"sheetName", string(sheet)},
		{"rows", string(payload)},
	})
	if err != nil {
		return nil, &PostError{Sheet: sheet, Action: action, Reason: "encode form", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(nil), body)
	if err != nil {
		return nil, &PostError{Sheet: sheet, Action: action, Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	status, raw, err := c.do(req)
	if err != nil {
		return nil, &PostError{Sheet: sheet, Action: action, Status: status, Reason: fmt.Sprintf("Failed to %s data", action), Err: err}
	}
	if !okStatus(status) {
		return nil, &PostError{Sheet: sheet, Action: action, Status: status, Reason: fmt.Sprintf("Failed to %s data", action)}
	}

	var parsed PostResponse
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, &PostError{Sheet: sheet, Action: action, Status: status, Reason: "unparseable response", Err: err}
	}
	if !parsed.Success() {
		errText, _ := parsed["error"].(string)
		message, _ := parsed["message"].(string)
		return parsed, &PostError{
			Sheet:  sheet,
			Action: action,
			Status: status,
			Reason: gatewayReason(errText, message, genericPostFailure),
		}
	}

	return parsed, nil
}
