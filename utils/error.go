package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")
	ErrorInvalidInput   = errors.New("invalid input")
	ErrorForbidden      = errors.New("forbidden")
)
