package attachment

import (
	"fmt"
	"mime"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxImageBytes is the inclusive size ceiling for inline and image uploads.
const MaxImageBytes int64 = 10 * 1024 * 1024

var imageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif"}

// Policy is a validation rule set applied to a File before upload.
type Policy struct {
	Name     string
	MaxBytes int64
	// Allowed is the MIME allow-list; nil accepts any type.
	Allowed map[string]struct{}
}

// ImagePolicy accepts common web image types up to MaxImageBytes.
func ImagePolicy() Policy {
	allowed := make(map[string]struct{}, len(imageTypes))
	for _, t := range imageTypes {
		allowed[t] = struct{}{}
	}
	return Policy{Name: KindImage, MaxBytes: MaxImageBytes, Allowed: allowed}
}

// AttachmentPolicy accepts any type up to maxBytes. A non-positive maxBytes disables the ceiling.
func AttachmentPolicy(maxBytes int64) Policy {
	return Policy{Name: KindAttachment, MaxBytes: maxBytes}
}

// Check validates f without reading its body.
func (p Policy) Check(f File) error {
	if f.Body == nil || strings.TrimSpace(f.Name) == "" {
		return ErrMissingFile
	}
	if f.Size < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalidInput)
	}
	if p.MaxBytes > 0 && f.Size > p.MaxBytes {
		return fmt.Errorf("%w: %s exceeds the %s limit",
			ErrFileTooLarge, humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(p.MaxBytes)))
	}
	if p.Allowed != nil {
		mediaType := normalizeMediaType(f.Type)
		if _, ok := p.Allowed[mediaType]; !ok {
			if mediaType == "" {
				mediaType = "unknown"
			}
			return fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
		}
	}
	return nil
}

func normalizeMediaType(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(value)
	}
	return strings.ToLower(mediaType)
}

func contentTypeOf(f File) string {
	if t := normalizeMediaType(f.Type); t != "" {
		return t
	}
	return "application/octet-stream"
}
