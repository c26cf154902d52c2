package browser

import (
	"errors"
	"fmt"

	"github.com/teachstack/coursefs/pkg/quota"
)

// ErrKind classifies why an operation (or one item inside a recursive
// operation) was rejected.
type ErrKind int

const (
	KindNone ErrKind = iota
	KindInvalidPath
	KindInvalidName
	KindNameCollision
	KindQuotaExceededLevels
	KindQuotaExceededFolders
	KindQuotaExceededFiles
	KindQuotaExceededBytes
	KindPermissionDenied
	KindFolderNotEmpty
	KindContentValidationFailed
	KindTypeNotAllowed
	KindClipboardEmpty
	KindIOError
)

func (k ErrKind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid path"
	case KindInvalidName:
		return "invalid name"
	case KindNameCollision:
		return "name collision"
	case KindQuotaExceededLevels:
		return "quota exceeded (levels)"
	case KindQuotaExceededFolders:
		return "quota exceeded (folders)"
	case KindQuotaExceededFiles:
		return "quota exceeded (files)"
	case KindQuotaExceededBytes:
		return "quota exceeded (bytes)"
	case KindPermissionDenied:
		return "permission denied"
	case KindFolderNotEmpty:
		return "folder not empty"
	case KindContentValidationFailed:
		return "content validation failed"
	case KindTypeNotAllowed:
		return "file type not allowed"
	case KindClipboardEmpty:
		return "clipboard empty"
	case KindIOError:
		return "io error"
	default:
		return "none"
	}
}

// OpError is the error every browser operation returns on rejection. Item
// names the offending entry so the caller can tell the user exactly which
// file or folder stopped the operation.
type OpError struct {
	Kind ErrKind
	Item string
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Item != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Item, e.Err)
	case e.Item != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Item)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(kind ErrKind, item string) *OpError {
	return &OpError{Kind: kind, Item: item}
}

func ioErr(item string, err error) *OpError {
	return &OpError{Kind: KindIOError, Item: item, Err: err}
}

// quotaErr maps a quota exceed reason onto the matching error kind.
func quotaErr(reason quota.ExceedKind, item string) *OpError {
	switch reason {
	case quota.ExceedLevels:
		return opErr(KindQuotaExceededLevels, item)
	case quota.ExceedFolders:
		return opErr(KindQuotaExceededFolders, item)
	case quota.ExceedFiles:
		return opErr(KindQuotaExceededFiles, item)
	default:
		return opErr(KindQuotaExceededBytes, item)
	}
}

// AsOpError unwraps err into an *OpError when it is one.
func AsOpError(err error) (*OpError, bool) {
	var opError *OpError
	if errors.As(err, &opError) {
		return opError, true
	}

	return nil, false
}

// KindOf returns the classification of err, or KindIOError for anything
// that isn't an OpError.
func KindOf(err error) ErrKind {
	if err == nil {
		return KindNone
	}

	if opError, ok := AsOpError(err); ok {
		return opError.Kind
	}

	return KindIOError
}
