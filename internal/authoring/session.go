// Package authoring holds the editor-side state of a single announcement draft.
package authoring

import (
	"context"
	"errors"
	"sync"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/attachment"
)

// ErrBusy is returned for any change attempted while a submit or upload is in flight.
var ErrBusy = errors.New("operation in progress")

// State is the lifecycle position of a Session.
type State int

const (
	Draft State = iota
	Loaded
	Editing
	Submitting
	Persisted
	SubmitFailed
)

func (s State) String() string {
	switch s {
	case Draft:
		return "draft"
	case Loaded:
		return "loaded"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Persisted:
		return "persisted"
	case SubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

// Publisher reads and writes announcement records.
type Publisher interface {
	Get(ctx context.Context, id string) (announcement.Announcement, error)
	Create(ctx context.Context, secret string, in announcement.Input) (announcement.Announcement, error)
	Update(ctx context.Context, secret, id string, in announcement.Input) (announcement.Announcement, error)
}

// Deps are the remote collaborators of a Session.
type Deps struct {
	Publisher Publisher
	Uploader  attachment.Uploader
	Images    attachment.ImageUploader
}

// Session is one author's draft of one announcement. Sessions share nothing;
// run as many as needed side by side.
type Session struct {
	mu sync.Mutex

	publisher Publisher
	manager   *attachment.Manager
	hook      *attachment.ImageHook
	secret    string

	state     State
	uploading int
	id        string
	title     string
	content   announcement.Content
	files     *attachment.WorkingSet
	lastErr   error
}

// NewDraft starts an empty draft for a new announcement.
func NewDraft(secret string, deps Deps) *Session {
	return newSession(secret, deps, Draft)
}

// Open loads an existing announcement for editing.
func Open(ctx context.Context, secret, id string, deps Deps) (*Session, error) {
	a, err := deps.Publisher.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s := newSession(secret, deps, Loaded)
	s.load(a)
	return s, nil
}

func newSession(secret string, deps Deps, state State) *Session {
	s := &Session{
		publisher: deps.Publisher,
		secret:    secret,
		state:     state,
		files:     attachment.NewWorkingSet(nil),
	}
	if deps.Uploader != nil {
		s.manager = attachment.NewManager(deps.Uploader)
	}
	if deps.Images != nil {
		s.hook = attachment.NewImageHook(deps.Images)
	}
	return s
}

func (s *Session) load(a announcement.Announcement) {
	s.id = a.ID.String()
	s.title = a.Title
	s.content = a.Content
	s.files = attachment.NewWorkingSet(a.Attachments)
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ID is the persisted record id, empty until the first successful submit of a new draft.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Err returns the error of the last failed submit, if the session is in SubmitFailed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Draft returns a copy of the fields that Submit would send.
func (s *Session) Draft() announcement.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputLocked()
}

func (s *Session) inputLocked() announcement.Input {
	return announcement.Input{Title: s.title, Content: s.content, Attachments: s.files.Items()}
}

// SetTitle replaces the draft title.
func (s *Session) SetTitle(title string) error {
	return s.edit(func() error {
		s.title = title
		return nil
	})
}

// SetContent replaces the rich-text body.
func (s *Session) SetContent(content announcement.Content) error {
	return s.edit(func() error {
		s.content = content
		return nil
	})
}

// RemoveAttachment drops the entry at index from the draft. The blob stays in the object store.
func (s *Session) RemoveAttachment(index int) ([]attachment.Meta, error) {
	var remaining []attachment.Meta
	err := s.edit(func() error {
		var err error
		remaining, err = s.files.RemoveAt(index)
		return err
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}

// Attachments returns the current working set.
func (s *Session) Attachments() []attachment.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.Items()
}

// AddFiles uploads files one by one and appends them to the draft only when all succeed.
func (s *Session) AddFiles(ctx context.Context, files []attachment.File) ([]attachment.Meta, error) {
	if s.manager == nil {
		return nil, errors.New("no attachment uploader configured")
	}
	if err := s.beginUpload(); err != nil {
		return nil, err
	}
	metas, err := s.manager.AddFiles(ctx, s.secret, files)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading--
	if err != nil {
		return nil, err
	}
	s.files.Append(metas...)
	s.touchLocked()
	return metas, nil
}

// InsertImage uploads one inline image and splices it into the content at cursor.
// The attachment list is not changed.
func (s *Session) InsertImage(ctx context.Context, cursor int, f attachment.File) (string, error) {
	if s.hook == nil {
		return "", errors.New("no image uploader configured")
	}
	if err := s.beginUpload(); err != nil {
		return "", err
	}
	url, err := s.hook.Upload(ctx, s.secret, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading--
	if err != nil {
		return "", err
	}
	s.content = s.content.InsertImage(cursor, url)
	s.touchLocked()
	return url, nil
}

// Submit validates the draft locally and then creates or updates the record.
// On failure the draft is kept as-is for a manual retry.
func (s *Session) Submit(ctx context.Context) (announcement.Announcement, error) {
	s.mu.Lock()
	if s.state == Submitting || s.uploading > 0 {
		s.mu.Unlock()
		return announcement.Announcement{}, ErrBusy
	}
	in := s.inputLocked()
	if err := announcement.Validate(in); err != nil {
		s.mu.Unlock()
		return announcement.Announcement{}, err
	}
	id := s.id
	s.state = Submitting
	s.mu.Unlock()

	var (
		a   announcement.Announcement
		err error
	)
	if id == "" {
		a, err = s.publisher.Create(ctx, s.secret, in)
	} else {
		a, err = s.publisher.Update(ctx, s.secret, id, in)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SubmitFailed
		s.lastErr = err
		return announcement.Announcement{}, err
	}
	s.load(a)
	s.state = Persisted
	s.lastErr = nil
	return a, nil
}

func (s *Session) edit(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting || s.uploading > 0 {
		return ErrBusy
	}
	if err := fn(); err != nil {
		return err
	}
	s.touchLocked()
	return nil
}

func (s *Session) beginUpload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// one upload at a time keeps attachments in call order
	if s.state == Submitting || s.uploading > 0 {
		return ErrBusy
	}
	s.uploading++
	return nil
}

// touchLocked records that the draft diverged from what was loaded or persisted.
func (s *Session) touchLocked() {
	switch s.state {
	case Loaded, Persisted, SubmitFailed:
		if s.id == "" {
			s.state = Draft
		} else {
			s.state = Editing
		}
	}
}
