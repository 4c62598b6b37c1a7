package announcement

import (
	"encoding/json"

	"github.com/abduss/pressroom/internal/attachment"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeAttachments(items []attachment.Meta) ([]byte, error) {
	if items == nil {
		items = []attachment.Meta{}
	}
	return json.Marshal(items)
}

func decodeAttachments(raw []byte) ([]attachment.Meta, error) {
	items := []attachment.Meta{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []attachment.Meta{}
	}
	return items, nil
}
