package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrMissingFile           = errors.New("no file provided")
	ErrInsufficientInputs    = errors.New("not enough input files")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrToolUnavailable       = errors.New("external tool is not available")
	ErrToolFailure           = errors.New("external tool failed")
	ErrToolTimeout           = errors.New("external tool timed out")
	ErrOCRBackendUnavailable = errors.New("text recognition backend is not configured")
	ErrOCRBackend            = errors.New("text recognition backend error")
	ErrStorageUnavailable    = errors.New("cloud storage is not configured")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrNotCompressible       = errors.New("pdf could not be compressed further")
	ErrPersistence           = errors.New("ledger write failed")
	ErrInvalidDownloadToken  = errors.New("invalid or expired download token")
)
