package notification

import (
	"context"
	"sync"

	id "homeward/pkg/domain"
)

// Directory resolves a user's email address. Identity lives outside this
// service, so recipients are looked up rather than stored on applications.
// A missing address means "skip the message", never an error to the caller.
type Directory interface {
	Email(ctx context.Context, userID id.UserID) (string, bool)
}

// StaticDirectory is an in-memory address book for dev and tests.
type StaticDirectory struct {
	mu        sync.RWMutex
	addresses map[id.UserID]string
}

func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{addresses: make(map[id.UserID]string)}
}

func (d *StaticDirectory) Put(userID id.UserID, email string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addresses[userID] = email
}

func (d *StaticDirectory) Email(_ context.Context, userID id.UserID) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	email, ok := d.addresses[userID]
	return email, ok && email != ""
}
