package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/oneword/internal/backup"
	"github.com/julianstephens/oneword/internal/clock"
	"github.com/julianstephens/oneword/internal/exchange"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Engine *exchange.Engine
	Clock  clock.Clock
}

// Me returns the configured identity participant.
func (ctx *Context) Me() (models.Participant, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return models.Participant{}, err
	}
	if settings.MeID == "" {
		return models.Participant{}, fmt.Errorf("no identity configured, run 'oneword init' first")
	}
	return ctx.Store.GetParticipant(settings.MeID)
}

// ResolveConnection accepts a connection id or a counterpart's name/id and
// returns the matching connection for me.
func (ctx *Context) ResolveConnection(meID, ref string) (models.Connection, error) {
	if conn, err := ctx.Store.GetConnection(ref); err == nil && conn.Has(meID) {
		return conn, nil
	}

	connections, err := ctx.Store.GetConnectionsFor(meID)
	if err != nil {
		return models.Connection{}, err
	}
	for _, conn := range connections {
		other, err := ctx.Store.GetParticipant(conn.Other(meID))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return models.Connection{}, err
		}
		if other.ID == ref || strings.EqualFold(other.Name, ref) {
			return conn, nil
		}
	}

	return models.Connection{}, fmt.Errorf("no connection found for %q", ref)
}

// PerformAutomaticBackup backs up the sqlite database if that is the active
// backend. Failures are warnings; they never block startup.
func (ctx *Context) PerformAutomaticBackup() {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: automatic backup failed: %v\n", err)
	}
}
