package sync

import (
	"context"
	"log"
	"os"
	"sync/atomic"

	"github.com/jotdown/jot/internal/note"
	"github.com/jotdown/jot/internal/notestore"
	"github.com/jotdown/jot/internal/remote"
)

// client implements the Client interface.
type client struct {
	local  *notestore.Store
	gw     *remote.Gateway
	logger *log.Logger
	online atomic.Bool
}

// New creates a sync client. A nil gateway means no backend is configured
// and every operation goes straight to the local store.
//
// If logger is nil, a default logger writing to stderr is used.
func New(local *notestore.Store, gw *remote.Gateway, logger *log.Logger) Client {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &client{local: local, gw: gw, logger: logger}
}

// Configured implements Client.Configured.
func (c *client) Configured() bool {
	return c.gw != nil
}

// Online implements Client.Online.
func (c *client) Online() bool {
	return c.gw != nil && c.online.Load()
}

// fellBack records the outcome of a remote attempt and logs the fallback.
func (c *client) fellBack(op string, err error) {
	c.online.Store(false)
	c.logger.Printf("remote %s failed (%s): falling back to local store", op, remote.CodeOf(err))
}

// List implements Client.List.
func (c *client) List(ctx context.Context) ([]note.Note, error) {
	if c.gw != nil {
		notes, err := c.gw.List(ctx)
		if err == nil {
			c.online.Store(true)
			return notes, nil
		}
		c.fellBack("list", err)
	}
	return c.local.List(), nil
}

// Get implements Client.Get.
func (c *client) Get(ctx context.Context, id string) (*note.Note, error) {
	if c.gw != nil {
		n, err := c.gw.Get(ctx, id)
		if err == nil {
			c.online.Store(true)
			return n, nil
		}
		c.fellBack("get", err)
	}
	return c.local.Get(id), nil
}

// Create implements Client.Create.
func (c *client) Create(ctx context.Context, n note.Note) (note.Note, error) {
	if c.gw != nil {
		created, err := c.gw.Create(ctx, n)
		if err == nil && created != nil {
			c.online.Store(true)
			return *created, nil
		}
		c.fellBack("create", err)
	}
	return c.local.Create(n.Title, n.Content), nil
}

// Update implements Client.Update.
func (c *client) Update(ctx context.Context, id string, p note.Patch) (*note.Note, error) {
	if c.gw != nil {
		updated, err := c.gw.Update(ctx, id, p)
		if err == nil {
			c.online.Store(true)
			return updated, nil
		}
		c.fellBack("update", err)
	}
	updated := c.local.Update(id, p)
	if updated == nil {
		return nil, &remote.Error{Code: remote.CodeNotFound, Message: "no note with id " + id}
	}
	return updated, nil
}

// Delete implements Client.Delete.
func (c *client) Delete(ctx context.Context, id string) (bool, error) {
	if c.gw != nil {
		ok, err := c.gw.Delete(ctx, id)
		if err == nil {
			c.online.Store(true)
			return ok, nil
		}
		c.fellBack("delete", err)
	}
	return c.local.Delete(id), nil
}
