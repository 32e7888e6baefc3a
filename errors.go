package texatlas

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the failures of the container codec.
type ErrorKind int

const (
	CouldNotOpenContainer ErrorKind = iota + 1
	CouldNotWriteContainer
	MissingMetadataEntry
	MissingImageEntry
	MalformedMetadata
	UnrecognizedColorType
	ImageDecodeFailure
	ImageEncodeFailure
	GotFloatingPointImage
)

func (k ErrorKind) String() string {
	switch k {
	case CouldNotOpenContainer:
		return "could not open container"
	case CouldNotWriteContainer:
		return "could not write container"
	case MissingMetadataEntry:
		return "missing coordinate chart entry"
	case MissingImageEntry:
		return "missing image entry"
	case MalformedMetadata:
		return "malformed coordinate charts"
	case UnrecognizedColorType:
		return "unrecognized color type"
	case ImageDecodeFailure:
		return "could not decode image"
	case ImageEncodeFailure:
		return "could not encode image"
	case GotFloatingPointImage:
		return "got a floating point image, expected a byte image"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by every decode and encode operation. Page names the
// atlas page that triggered the failure, if any, and Err holds the
// lower-level cause.
type Error struct {
	Kind ErrorKind
	Page string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("texatlas: ")
	if e.Page != "" {
		fmt.Fprintf(&b, "page %q: ", e.Page)
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target without a page name
// matches errors for any page.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Page == "" || t.Page == e.Page)
}

// Sentinels for use with errors.Is.
var (
	ErrCouldNotOpenContainer  = &Error{Kind: CouldNotOpenContainer}
	ErrCouldNotWriteContainer = &Error{Kind: CouldNotWriteContainer}
	ErrMissingMetadataEntry   = &Error{Kind: MissingMetadataEntry}
	ErrMissingImageEntry      = &Error{Kind: MissingImageEntry}
	ErrMalformedMetadata      = &Error{Kind: MalformedMetadata}
	ErrUnrecognizedColorType  = &Error{Kind: UnrecognizedColorType}
	ErrImageDecodeFailure     = &Error{Kind: ImageDecodeFailure}
	ErrImageEncodeFailure     = &Error{Kind: ImageEncodeFailure}
	ErrGotFloatingPointImage  = &Error{Kind: GotFloatingPointImage}
)

func newError(kind ErrorKind, page string, err error) *Error {
	return &Error{Kind: kind, Page: page, Err: err}
}
