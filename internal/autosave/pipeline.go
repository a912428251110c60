// Package autosave debounces account edits into background saves so the
// front desk never presses a save button. Edits mark the pipeline dirty;
// after a quiet period the current snapshot is pushed through a Saver.
// Saves are single-flight and skipped when the snapshot has not changed
// since the last successful push.
package autosave

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"hotel-backend/internal/models"
)

// Saver pushes one account snapshot to durable storage. SaveSync is the
// best-effort path used during shutdown, where nothing waits on the result.
type Saver interface {
	Save(ctx context.Context, roomNumber int, account *models.RoomAccount) error
	SaveSync(roomNumber int, account *models.RoomAccount)
}

// Snapshot returns the current editable state of the room being worked on.
// It is called from the pipeline's goroutine, so it must copy.
type Snapshot func() *models.RoomAccount

const (
	defaultDebounce = 2 * time.Second
	saveTimeout     = 10 * time.Second
)

// Pipeline owns the dirty flag, the debounce timer and the single-flight
// save for one editing session. One Pipeline serves one room at a time;
// SwitchRoom flushes the old room before pointing at the new one.
type Pipeline struct {
	saver    Saver
	debounce time.Duration

	mu          sync.Mutex
	room        int
	snapshot    Snapshot
	timer       *time.Timer
	loading     bool
	dirty       bool
	saving      bool
	pendingSave bool
	lastDigest  string
	lastSaved   time.Time
	stopped     bool
}

func NewPipeline(saver Saver) *Pipeline {
	return &Pipeline{saver: saver, debounce: defaultDebounce}
}

// NewPipelineWithDebounce is used by tests to shrink the quiet period.
func NewPipelineWithDebounce(saver Saver, debounce time.Duration) *Pipeline {
	return &Pipeline{saver: saver, debounce: debounce}
}

// BeginLoad suspends dirty tracking while a room's account is being loaded
// into the editor. Changes applied during a load are not edits.
func (p *Pipeline) BeginLoad(roomNumber int, snapshot Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.room = roomNumber
	p.snapshot = snapshot
	p.loading = true
	p.dirty = false
	p.stopTimerLocked()
}

// EndLoad re-arms dirty tracking and seeds the digest with the loaded
// state, so an untouched account never generates a save.
func (p *Pipeline) EndLoad() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if p.snapshot != nil {
		p.lastDigest = fingerprint(p.snapshot())
	}
}

// MarkDirty records an edit and (re)starts the debounce timer. Multiple
// edits inside one quiet period coalesce into a single save.
func (p *Pipeline) MarkDirty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loading || p.stopped {
		return
	}
	p.dirty = true
	p.stopTimerLocked()
	p.timer = time.AfterFunc(p.debounce, p.timerFired)
}

func (p *Pipeline) timerFired() {
	p.save(context.Background())
}

// Flush saves immediately when dirty, cancelling any pending timer. It
// blocks until the save finishes.
func (p *Pipeline) Flush(ctx context.Context) error {
	p.mu.Lock()
	p.stopTimerLocked()
	dirty := p.dirty
	p.mu.Unlock()
	if !dirty {
		return nil
	}
	return p.save(ctx)
}

// SwitchRoom flushes whatever is pending for the current room, then points
// the pipeline at the new room. The new room starts in the loading state.
func (p *Pipeline) SwitchRoom(ctx context.Context, roomNumber int, snapshot Snapshot) error {
	if err := p.Flush(ctx); err != nil {
		log.Printf("[Autosave] Flush before room switch failed: %v", err)
	}
	p.BeginLoad(roomNumber, snapshot)
	return nil
}

// Shutdown fires a final best-effort save when dirty and stops the
// pipeline. Used on editor close, where nothing can wait for a result.
func (p *Pipeline) Shutdown() {
	p.mu.Lock()
	p.stopTimerLocked()
	dirty := p.dirty
	room := p.room
	var account *models.RoomAccount
	if dirty && p.snapshot != nil {
		account = p.snapshot()
	}
	p.dirty = false
	p.stopped = true
	p.mu.Unlock()

	if account != nil {
		p.saver.SaveSync(room, account)
	}
}

// save is the single-flight worker. A MarkDirty arriving mid-save queues
// exactly one follow-up save instead of racing a second writer.
func (p *Pipeline) save(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped || p.snapshot == nil {
		p.mu.Unlock()
		return nil
	}
	if p.saving {
		p.pendingSave = true
		p.mu.Unlock()
		return nil
	}
	room := p.room
	account := p.snapshot()
	digest := fingerprint(account)
	if digest == p.lastDigest {
		p.dirty = false
		p.mu.Unlock()
		return nil
	}
	p.saving = true
	p.dirty = false
	p.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(ctx, saveTimeout)
	err := p.saver.Save(saveCtx, room, account)
	cancel()

	p.mu.Lock()
	p.saving = false
	if err != nil {
		// Failed saves stay dirty so the next edit or flush retries.
		p.dirty = true
		log.Printf("[Autosave] Save failed for room %d: %v", room, err)
	} else {
		p.lastDigest = digest
		p.lastSaved = time.Now()
	}
	rerun := p.pendingSave
	p.pendingSave = false
	p.mu.Unlock()

	if rerun {
		return p.save(ctx)
	}
	return err
}

// Dirty reports whether unsaved edits exist.
func (p *Pipeline) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// LastSaved reports when the last successful save finished; the editor shows
// it as "saved at HH:MM". Zero until the first save.
func (p *Pipeline) LastSaved() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSaved
}

func (p *Pipeline) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// fingerprint hashes the JSON form of the account. Timestamps and derived
// totals are part of the document, so the caller's snapshot should be the
// raw editable state.
func fingerprint(account *models.RoomAccount) string {
	if account == nil {
		return ""
	}
	data, err := json.Marshal(account)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
