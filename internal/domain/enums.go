package domain

import (
	"path/filepath"
	"strings"
)

// FileType represents an accepted input file extension.
type FileType string

const (
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
	FileTypeJPEG FileType = "jpeg"
	FileTypeGIF  FileType = "gif"
	FileTypePDF  FileType = "pdf"
	FileTypeDOC  FileType = "doc"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// AllowedExtensions is the upload and conversion allow-list.
var AllowedExtensions = map[string]FileType{
	"png":  FileTypePNG,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPEG,
	"gif":  FileTypeGIF,
	"pdf":  FileTypePDF,
	"doc":  FileTypeDOC,
	"docx": FileTypeDOCX,
	"txt":  FileTypeTXT,
}

// OCRExtensions are the inputs text extraction accepts.
var OCRExtensions = map[string]FileType{
	"png":  FileTypePNG,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPEG,
	"gif":  FileTypeGIF,
	"pdf":  FileTypePDF,
}

// ImageExtensions are the inputs accepted when assembling a PDF from images.
var ImageExtensions = map[string]FileType{
	"png":  FileTypePNG,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPEG,
}

// ContentTypes maps extensions to the MIME type used for responses and storage.
var ContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"zip":  "application/zip",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"txt":  "text/plain",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"odt":  "application/vnd.oasis.opendocument.text",
	"rtf":  "application/rtf",
	"html": "text/html",
}

// Ext returns the lower-cased extension of name without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ContentTypeFor returns the MIME type for a file name, defaulting to octet-stream.
func ContentTypeFor(name string) string {
	if ct, ok := ContentTypes[Ext(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// OperationKind identifies what a ledger entry records.
type OperationKind string

const (
	OpUpload        OperationKind = "upload"
	OpCloudUpload   OperationKind = "cloud_upload"
	OpLocalUpload   OperationKind = "local_upload"
	OpOCRExtraction OperationKind = "ocr_extraction"
	OpMergePDF      OperationKind = "merge_pdf"
	OpSplitPDF      OperationKind = "split_pdf"
	OpCompressPDF   OperationKind = "compress_pdf"
	OpPDFToImages   OperationKind = "pdf_to_images"
	OpImagesToPDF   OperationKind = "images_to_pdf"
)

// ConvertTo returns the operation kind for a conversion into target.
func ConvertTo(target string) OperationKind {
	return OperationKind("convert_to_" + target)
}

// RecordStatus represents the outcome of a ledger entry.
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusCompleted RecordStatus = "completed"
	StatusFailed    RecordStatus = "failed"
)

// ExportFormat is a history export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)
