package sheets

import "fmt"

// FetchError reports a failed read of one sheet.
type FetchError struct {
	Sheet  SheetName
	Status int
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.Sheet, e.Reason)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// PostError reports a rejected or failed mutation. Reason carries the gateway's
// own message when it sent one.
type PostError struct {
	Sheet  SheetName
	Action Action
	Status int
	Reason string
	Err    error
}

func (e *PostError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Action, e.Sheet, e.Reason)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PostError) Unwrap() error { return e.Err }

type UploadError struct {
	FileName string
	Status   int
	Reason   string
	Err      error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("upload %q: %s", e.FileName, e.Reason)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UploadError) Unwrap() error { return e.Err }

const genericPostFailure = "Something went wrong in the API"

func gatewayReason(errText, message, fallback string) string {
	if errText != "" {
		return errText
	}
	if message != "" {
		return message
	}
	return fallback
}
