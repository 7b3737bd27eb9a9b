package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/indent_tracker/config"
	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

// Gateway is the write side of the sheets client.
type Gateway interface {
	PostToSheet(ctx context.Context, rows []sheets.Row, action sheets.Action, sheet sheets.SheetName) (sheets.PostResponse, error)
	UploadFile(ctx context.Context, req sheets.UploadRequest, content io.Reader) (string, error)
}

// Store is what actions need from the sheets store: current rows to locate
// the target and a way to re-read the owning sheet afterwards.
type Store interface {
	Snapshot(name sheets.SheetName) []sheets.Row
	RefreshAfter(name sheets.SheetName, delay time.Duration) *time.Timer
}

// Notice is the user-facing outcome of an action.
type Notice struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func success(msg string) Notice { return Notice{Success: true, Message: msg} }
func failure(msg string) Notice { return Notice{Success: false, Message: msg} }

// InvalidRequestError carries per-field validation messages.
type InvalidRequestError struct {
	Fields map[string]string
}

func (e *InvalidRequestError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *InvalidRequestError) Unwrap() error { return utils.ErrorInvalidInput }

// ErrBillPhotoFolderUnset means bill photos cannot be stored. It is a server
// misconfiguration, not a gateway failure.
var ErrBillPhotoFolderUnset = errors.New("BILL_PHOTO_FOLDER is not set")

type Options struct {
	BillPhotoFolder string
	RefreshDelay    time.Duration
	Now             func() time.Time
}

type Service struct {
	gateway  Gateway
	store    Store
	logger   *logrus.Logger
	validate *validator.Validate
	opts     Options
}

func NewService(gateway Gateway, store Store, logger *logrus.Logger, opts Options) *Service {
	if logger == nil {
		logger = config.GetLogger()
	}
	if opts.RefreshDelay <= 0 {
		opts.RefreshDelay = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		gateway:  gateway,
		store:    store,
		logger:   logger,
		validate: validator.New(),
		opts:     opts,
	}
}

func (s *Service) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &InvalidRequestError{Fields: utils.ProcessValidationErrors(err)}
		}
		return fmt.Errorf("%v: %w", err, utils.ErrorInvalidInput)
	}
	return nil
}

type PORequiredRequest struct {
	IndentNo string `json:"indentNo" form:"indentNo" validate:"required"`
	Answer   string `json:"answer" form:"answer" validate:"required,oneof=Yes No"`
}

// SetPORequired records whether an approved indent needs a purchase order.
func (s *Service) SetPORequired(ctx context.Context, user models.User, req PORequiredRequest) (Notice, error) {
	req.IndentNo = strings.TrimSpace(req.IndentNo)
	if err := s.check(req); err != nil {
		return failure("Please fill all required fields"), err
	}

	row, ok := findRow(s.store.Snapshot(sheets.Indent), func(r sheets.Row) bool {
		return r.Trimmed("indentNumber") == req.IndentNo
	})
	if !ok || !user.CanSeeFirm(row.String("firmNameMatch")) {
		return failure("Indent not found"), fmt.Errorf("indent %s: %w", req.IndentNo, utils.ErrorRecordNotFound)
	}
	// the gateway addresses rows by index; without one the update has no target
	if !row.Present("rowIndex") {
		return failure("Indent not found"), fmt.Errorf("indent %s has no rowIndex: %w", req.IndentNo, utils.ErrorRecordNotFound)
	}

	payload := sheets.Row{
		"rowIndex":  row["rowIndex"],
		"sheetName": sheets.Indent.String(),
		"poRequred": req.Answer,
	}
	if _, err := s.gateway.PostToSheet(ctx, []sheets.Row{payload}, sheets.ActionUpdate, sheets.Indent); err != nil {
		config.LogError(s.logger, "actions", "SetPORequired", "posting poRequred for "+req.IndentNo, payload, err)
		return failure("Failed to update PO Required status"), err
	}

	config.LogInfo(s.logger, "actions", "SetPORequired", "poRequred updated", logrus.Fields{
		"indentNo": req.IndentNo,
		"answer":   req.Answer,
		"username": user.Username,
	})
	s.store.RefreshAfter(sheets.Indent, s.opts.RefreshDelay)
	return success("PO Required status updated to " + req.Answer), nil
}

type BillStatusRequest struct {
	IndentNo string `json:"indentNo" form:"indentNo" validate:"required"`
	Status   string `json:"status" form:"status" validate:"required,oneof=ok"`
	// RowIndex picks one STORE IN row when an indent was lifted more than once.
	RowIndex int         `json:"rowIndex" form:"rowIndex" validate:"gte=0"`
	Photo    *Attachment `json:"-" form:"-" validate:"-"`
}

// UpdateBillStatus marks the vendor bill of a STORE IN row as received,
// uploading the bill photo first when one is attached.
func (s *Service) UpdateBillStatus(ctx context.Context, user models.User, req BillStatusRequest) (Notice, error) {
	req.IndentNo = strings.TrimSpace(req.IndentNo)
	if err := s.check(req); err != nil {
		return failure("Please fill all required fields"), err
	}

	row, ok := findRow(s.store.Snapshot(sheets.StoreIn), func(r sheets.Row) bool {
		if r.Trimmed("indentNo") != req.IndentNo || !views.AwaitingBill(r) {
			return false
		}
		return req.RowIndex == 0 || r.Int("rowIndex") == req.RowIndex
	})
	if !ok || !user.CanSeeFirm(row.String("firmNameMatch")) || !row.Present("rowIndex") {
		return failure("Bill not pending for " + req.IndentNo), fmt.Errorf("store-in row %s: %w", req.IndentNo, utils.ErrorRecordNotFound)
	}

	billImageURL := ""
	if req.Photo != nil {
		if s.opts.BillPhotoFolder == "" {
			config.LogError(s.logger, "actions", "UpdateBillStatus", "uploading bill photo for "+req.IndentNo, req.Photo.FileName, ErrBillPhotoFolderUnset)
			return failure("Bill photo uploads are not configured"), ErrBillPhotoFolderUnset
		}
		data, err := req.Photo.read()
		if err != nil {
			if errors.Is(err, utils.ErrorInvalidInput) {
				return failure("File size should be less than 5MB and of a supported type"), err
			}
			return failure("Failed to update"), err
		}
		billImageURL, err = s.gateway.UploadFile(ctx, sheets.UploadRequest{
			FileName:   req.Photo.FileName,
			MimeType:   req.Photo.MimeType,
			FolderID:   s.opts.BillPhotoFolder,
			UploadType: sheets.UploadTypeUpload,
		}, bytes.NewReader(data))
		if err != nil {
			config.LogError(s.logger, "actions", "UpdateBillStatus", "uploading bill photo for "+req.IndentNo, req.Photo.FileName, err)
			return failure("Failed to update"), err
		}
	}

	payload := sheets.Row{
		"indentNo":        req.IndentNo,
		"actual11":        s.opts.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		"billStatusNew":   req.Status,
		"billImageStatus": billImageURL,
		"rowIndex":        row["rowIndex"],
	}
	if _, err := s.gateway.PostToSheet(ctx, []sheets.Row{payload}, sheets.ActionUpdate, sheets.StoreIn); err != nil {
		config.LogError(s.logger, "actions", "UpdateBillStatus", "posting bill status for "+req.IndentNo, payload, err)
		return failure("Failed to update"), err
	}

	config.LogInfo(s.logger, "actions", "UpdateBillStatus", "bill status updated", logrus.Fields{
		"indentNo": req.IndentNo,
		"photo":    billImageURL != "",
		"username": user.Username,
	})
	s.store.RefreshAfter(sheets.StoreIn, s.opts.RefreshDelay)
	return success("Bill status updated for " + req.IndentNo), nil
}

func findRow(rows []sheets.Row, match func(sheets.Row) bool) (sheets.Row, bool) {
	for _, r := range rows {
		if match(r) {
			return r, true
		}
	}
	return nil, false
}
