package attachment

import "io"

// Meta is the attachment record embedded in an announcement. Every upload made
// by this service sets StoredName; older records may lack it.
type Meta struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	StoredName string `json:"storedName,omitempty"`
}

// File is one candidate upload as seen before it reaches the object store.
type File struct {
	Name string
	Type string
	Size int64
	Body io.Reader
}

// Upload kinds, used as metric labels.
const (
	KindAttachment = "attachment"
	KindImage      = "image"
)
