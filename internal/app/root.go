// Package app holds the Root: the single owner of the todo collection.
//
// Views never touch the collection directly. They call AddItem, ToggleItem
// and DeleteItem, and learn about changes through Subscribe.
// A Root is not safe for concurrent use; drive it from one goroutine.
package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

// Root owns the collection and writes it through to storage on every change.
type Root struct {
	storage store.Storage
	key     string
	logger  *log.Logger
	newID   func() string

	items []model.Item

	subs   []subscriber
	nextID int

	persistErr error
}

type subscriber struct {
	id int
	fn func([]model.Item)
}

// Option configures a Root.
type Option func(*Root)

// WithKey sets the storage key. Empty keys are ignored.
func WithKey(key string) Option {
	return func(r *Root) {
		if strings.TrimSpace(key) != "" {
			r.key = key
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Root) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Root) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New builds a Root and loads the collection from storage. A missing,
// unreadable or malformed value starts an empty collection.
func New(s store.Storage, opts ...Option) *Root {
	r := &Root{
		storage: s,
		key:     jsonstore.DefaultKey,
		logger:  logging.Discard(),
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	r.initialize()
	return r
}

func (r *Root) initialize() {
	items, err := jsonstore.Load(r.storage, r.key)
	if err != nil {
		if errors.Is(err, jsonstore.ErrMalformed) {
			r.logger.Warn("ignoring malformed stored todos", "key", r.key, "err", err)
		} else {
			r.logger.Warn("could not read stored todos", "key", r.key, "err", err)
		}
		items = []model.Item{}
	}
	r.items = items
	r.logger.Debug("loaded todos", "key", r.key, "count", len(items))
}

// Items returns a snapshot of the collection in insertion order.
func (r *Root) Items() []model.Item {
	return model.Clone(r.items)
}

// Find returns the item with the given id.
func (r *Root) Find(id string) (model.Item, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], true
	}
	return model.Item{}, false
}

// AddItem appends a new pending item. Empty or whitespace-only titles are
// rejected and leave the collection unchanged.
func (r *Root) AddItem(title string) (model.Item, bool) {
	if strings.TrimSpace(title) == "" {
		return model.Item{}, false
	}
	it := model.Item{ID: r.freshID(), Title: title}
	r.items = append(r.items, it)
	r.commit("add", it.ID)
	return it, true
}

// ToggleItem sets Completed on the matching item. Unknown ids are a no-op.
func (r *Root) ToggleItem(id string, completed bool) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	next := model.Clone(r.items)
	updated := next[i]
	updated.Completed = completed
	next[i] = updated
	r.items = next
	r.commit("toggle", id)
	return true
}

// DeleteItem removes the matching item. Unknown ids are a no-op.
func (r *Root) DeleteItem(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]model.Item, 0, len(r.items)-1)
	next = append(next, r.items[:i]...)
	next = append(next, r.items[i+1:]...)
	r.items = next
	r.commit("delete", id)
	return true
}

// Subscribe registers fn to receive a snapshot after every mutation.
// The returned func unregisters it.
func (r *Root) Subscribe(fn func([]model.Item)) (cancel func()) {
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// LastPersistError is the error from the most recent write, or nil if it
// succeeded.
func (r *Root) LastPersistError() error {
	return r.persistErr
}

// maxIDAttempts bounds how often the configured generator may collide
// before AddItem falls back to random UUIDs.
const maxIDAttempts = 8

func (r *Root) freshID() string {
	for range maxIDAttempts {
		if id := r.newID(); id != "" && r.indexOf(id) < 0 {
			return id
		}
	}
	r.logger.Warn("id generator keeps colliding; using a random uuid")
	for {
		if id := uuid.NewString(); r.indexOf(id) < 0 {
			return id
		}
	}
}

func (r *Root) indexOf(id string) int {
	for i, it := range r.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// commit persists and notifies. A failed write never undoes the mutation.
func (r *Root) commit(op, id string) {
	r.persistErr = jsonstore.Save(r.storage, r.key, r.items)
	if r.persistErr != nil {
		r.logger.Warn("could not persist todos", "op", op, "id", id, "err", r.persistErr)
	} else {
		r.logger.Debug("persisted todos", "op", op, "id", id, "count", len(r.items))
	}
	for _, s := range r.subs {
		s.fn(r.Items())
	}
}
