package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/gonote/gonote/internal/ai"
	"github.com/gonote/gonote/internal/apiclient"
	"github.com/gonote/gonote/internal/cache"
	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/config"
	"github.com/gonote/gonote/internal/editor"
	"github.com/gonote/gonote/internal/logging"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/session"
	"github.com/gonote/gonote/internal/suggest"
	"github.com/gonote/gonote/internal/syncq"
	"github.com/gonote/gonote/internal/workspace"
	"github.com/spf13/cobra"
)

var errOffline = errors.New("offline")

// app holds everything one command invocation needs.
type app struct {
	dir      string
	cfg      *config.Config
	log      zerolog.Logger
	clock    clock.Clock
	sessions *session.Store
	sess     *session.Session // nil when logged out
	client   *apiclient.Client
	cache    *cache.Cache
	store    *workspace.Store
	queue    *syncq.Queue
}

func openApp() (*app, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(getBaseDir()); err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	logger := logging.Setup(os.Stderr, logLevelOr(os.Getenv("GONOTE_LOG_LEVEL"), "warn"), os.Getenv("GONOTE_LOG_FORMAT"))

	sessions := session.NewStore(dir)
	sess, err := session.Init(sessions)
	if err != nil && !errors.Is(err, session.ErrNotLoggedIn) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	c, err := cache.Open(dir)
	if err != nil {
		return nil, err
	}

	familyID := ""
	if sess != nil {
		familyID = sess.User.FamilyID
	}
	clk := clock.Real()

	return &app{
		dir:      dir,
		cfg:      cfg,
		log:      logger,
		clock:    clk,
		sessions: sessions,
		sess:     sess,
		client:   apiclient.New(cfg.GetServerURL(), sess.Token()),
		cache:    c,
		store:    workspace.New(clk, cfg.GetFolders(), familyID),
	}, nil
}

func (a *app) requireLogin() error {
	if a.sess == nil || a.sess.User == nil {
		return fmt.Errorf("%w: run `gonote login` first", session.ErrNotLoggedIn)
	}
	return nil
}

// load fills the store from the backend, falling back to the cache, and
// starts the sync queue.
func (a *app) load(ctx context.Context) error {
	notes, err := a.cache.LoadNotes()
	if err != nil {
		return err
	}
	events, err := a.cache.LoadEvents()
	if err != nil {
		return err
	}
	pending, err := a.cache.Pending()
	if err != nil {
		return err
	}
	state, hasState, err := a.cache.LoadState()
	if err != nil {
		return err
	}

	fetched := false
	if !offline {
		remoteNotes, remoteEvents, err := a.fetch(ctx)
		if err != nil {
			a.log.Warn().Err(err).Msg("fetch workspace")
			output.Warning("server unreachable, using cached notes: %v", err)
		} else {
			notes, events, fetched = syncq.Overlay(remoteNotes, tasksOf(pending)), overlayEvents(remoteEvents, pending), true
		}
	}
	if !fetched && !hasState && len(notes) == 0 {
		notes = models.SeedNotes(clock.Millis(a.clock))
	}

	a.store.Load(notes)
	a.store.LoadEvents(events)
	if hasState {
		a.store.Restore(state)
	}
	for _, p := range pending {
		if p.Task.NoteID != "" && p.Task.Kind != syncq.DeleteNote {
			a.store.MarkFailed(p.Task.NoteID, errors.New(p.Error))
		}
	}

	var remote syncq.Remote = a.client
	if offline {
		remote = offlineRemote{}
	}
	a.queue = syncq.New(remote, a.store,
		syncq.WithLogger(a.log),
		syncq.WithFailureSink(a.cache),
		syncq.WithEventSink(a.store),
	)
	a.queue.Watch(a.store)
	return nil
}

func (a *app) fetch(ctx context.Context) ([]models.Note, []models.CalendarEvent, error) {
	notes, err := a.client.ListNotes(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	events, err := a.client.ListEvents(ctx)
	if err != nil {
		return nil, nil, err
	}
	if a.store.FamilyID() == "" {
		return notes, events, nil
	}

	famNotes, err := a.client.FamilyNotes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("family notes: %w", err)
	}
	famEvents, err := a.client.FamilyEvents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("family events: %w", err)
	}
	return mergeNotes(notes, famNotes), mergeEvents(events, famEvents), nil
}

// close waits for queued writes, reports notes that did not sync and saves
// the workspace snapshot.
func (a *app) close() {
	if a.queue != nil {
		timeout := a.cfg.GetSyncTimeout()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := a.queue.Drain(ctx); err != nil {
			output.Warning("writes still pending after %s, kept for `gonote sync retry`", timeout)
		}
		cancel()
		a.queue.Close()
		a.reportSync()

		if err := a.cache.SaveNotes(a.store.Notes()); err != nil {
			a.log.Error().Err(err).Msg("save notes")
		}
		if err := a.cache.SaveEvents(a.store.Events()); err != nil {
			a.log.Error().Err(err).Msg("save events")
		}
		if err := a.cache.SaveState(a.store.State()); err != nil {
			a.log.Error().Err(err).Msg("save state")
		}
	}
	if err := a.cache.Close(); err != nil {
		a.log.Error().Err(err).Msg("close cache")
	}
}

func (a *app) reportSync() {
	for _, id := range a.store.Unsynced() {
		st := a.store.SyncStatus(id)
		title := id
		if n, err := a.store.Note(id); err == nil {
			title = fmt.Sprintf("%s %q", id, n.DisplayTitle())
		}
		output.Warning("%s %s", title, output.FormatSyncStatus(st))
	}
}

func (a *app) editor() *editor.Editor {
	polisher := ai.New(a.cfg.GetAIEndpoint(), a.cfg.GetAIAPIKey(), a.cfg.GetAIModel(), a.cfg.GetAITimeout())
	return editor.New(a.store, a.sess,
		editor.WithClock(a.clock),
		editor.WithPolisher(polisher),
		editor.WithShareBaseURL(a.cfg.GetShareBaseURL()),
	)
}

// note resolves ref as an id, then an exact title. An empty ref means the
// active note.
func (a *app) note(ref string) (*models.Note, error) {
	if ref == "" {
		if n := a.store.ActiveNote(); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("no note selected")
	}
	if n, err := a.store.Note(ref); err == nil {
		return n, nil
	}
	if n, ok := a.store.FindByTitle(ref); ok {
		return n, nil
	}
	var titles []string
	for _, n := range a.store.Notes() {
		titles = append(titles, n.DisplayTitle())
	}
	return nil, fmt.Errorf("%w: %s%s", workspace.ErrNoteNotFound, ref, suggest.Hint(suggest.Closest(ref, titles)))
}

// openNote selects the note and loads it into a fresh editor.
func (a *app) openNote(ref string) (*editor.Editor, *models.Note, error) {
	n, err := a.note(ref)
	if err != nil {
		return nil, nil, err
	}
	if err := a.store.SetActiveNote(n.ID); err != nil {
		return nil, nil, err
	}
	ed := a.editor()
	ed.Open(n)
	return ed, n, nil
}

// workspaceCmd wraps a command that needs a logged-in, loaded workspace.
func workspaceCmd(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.close()

		if err := a.requireLogin(); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := a.load(cmd.Context()); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := fn(cmd, args, a); err != nil {
			output.Error("%v", err)
			return err
		}
		return nil
	}
}

// sessionCmd wraps a command that only needs config, session and client.
func sessionCmd(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.close()

		if err := fn(cmd, args, a); err != nil {
			output.Error("%v", err)
			return err
		}
		return nil
	}
}

func tasksOf(pending []cache.PendingTask) []syncq.Task {
	out := make([]syncq.Task, 0, len(pending))
	for _, p := range pending {
		out = append(out, p.Task)
	}
	return out
}

func mergeNotes(own, family []models.Note) []models.Note {
	seen := make(map[string]bool, len(own))
	out := append([]models.Note{}, own...)
	for _, n := range own {
		seen[n.ID] = true
	}
	for _, n := range family {
		if !seen[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

func mergeEvents(own, family []models.CalendarEvent) []models.CalendarEvent {
	seen := make(map[string]bool, len(own))
	out := append([]models.CalendarEvent{}, own...)
	for _, e := range own {
		seen[e.ID] = true
	}
	for _, e := range family {
		if !seen[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// overlayEvents keeps events created locally whose write has not landed
// and drops the ones deleted locally.
func overlayEvents(events []models.CalendarEvent, pending []cache.PendingTask) []models.CalendarEvent {
	out := append([]models.CalendarEvent{}, events...)
	for _, p := range pending {
		switch p.Task.Kind {
		case syncq.CreateEvent:
			if p.Task.Event != nil {
				out = mergeEvents(out, []models.CalendarEvent{*p.Task.Event})
			}
		case syncq.DeleteEvent:
			for i := range out {
				if out[i].ID == p.Task.EventID {
					out = append(out[:i], out[i+1:]...)
					break
				}
			}
		}
	}
	return out
}

// offlineRemote fails every write so it is kept for a later retry.
type offlineRemote struct{}

func (offlineRemote) CreateNote(context.Context, *models.Note) (*models.Note, error) {
	return nil, errOffline
}

func (offlineRemote) UpdateNote(context.Context, *models.Note) (*models.Note, error) {
	return nil, errOffline
}

func (offlineRemote) DeleteNote(context.Context, string) error { return errOffline }

func (offlineRemote) CreateEvent(context.Context, models.CalendarEvent) (*models.CalendarEvent, error) {
	return nil, errOffline
}

func (offlineRemote) DeleteEvent(context.Context, string) error { return errOffline }
