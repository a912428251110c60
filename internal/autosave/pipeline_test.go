package autosave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotel-backend/internal/autosave"
	"hotel-backend/internal/models"
)

type recordingSaver struct {
	mu        sync.Mutex
	saves     []int // room numbers, in order
	guests    []string
	syncSaves []int
	failNext  bool
	block     chan struct{} // when set, Save waits on it before recording
}

func (s *recordingSaver) Save(ctx context.Context, roomNumber int, account *models.RoomAccount) error {
	s.mu.Lock()
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("save failed")
	}
	s.saves = append(s.saves, roomNumber)
	s.guests = append(s.guests, account.GuestName)
	return nil
}

func (s *recordingSaver) SaveSync(roomNumber int, account *models.RoomAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncSaves = append(s.syncSaves, roomNumber)
}

func (s *recordingSaver) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

type editable struct {
	mu      sync.Mutex
	account models.RoomAccount
}

func (e *editable) snapshot() *models.RoomAccount {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.account
	return &snap
}

func (e *editable) setGuest(name string) {
	e.mu.Lock()
	e.account.GuestName = name
	e.mu.Unlock()
}

func startEditing(p *autosave.Pipeline, room int, e *editable) {
	p.BeginLoad(room, e.snapshot)
	p.EndLoad()
}

func TestDebounceCoalescesEdits(t *testing.T) {
	saver := &recordingSaver{}
	p := autosave.NewPipelineWithDebounce(saver, 30*time.Millisecond)
	state := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, state)

	// A burst of edits within the quiet period.
	for i := 0; i < 10; i++ {
		state.setGuest("Guest " + string(rune('A'+i)))
		p.MarkDirty()
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if got := saver.saveCount(); got != 1 {
		t.Errorf("saves = %d, want 1 (edits should coalesce)", got)
	}
	if p.Dirty() {
		t.Error("pipeline still dirty after save")
	}
}

func TestUnchangedSnapshotSkipsSave(t *testing.T) {
	saver := &recordingSaver{}
	p := autosave.NewPipelineWithDebounce(saver, 10*time.Millisecond)
	state := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, state)

	// Dirty mark with no actual change: digest matches the loaded state.
	p.MarkDirty()
	time.Sleep(60 * time.Millisecond)

	if got := saver.saveCount(); got != 0 {
		t.Errorf("saves = %d, want 0 (snapshot unchanged since load)", got)
	}
}

func TestEditsDuringLoadAreIgnored(t *testing.T) {
	saver := &recordingSaver{}
	p := autosave.NewPipelineWithDebounce(saver, 10*time.Millisecond)
	state := &editable{}

	p.BeginLoad(5, state.snapshot)
	state.setGuest("loaded from server")
	p.MarkDirty() // applying loaded data is not an edit
	p.EndLoad()

	time.Sleep(60 * time.Millisecond)

	if got := saver.saveCount(); got != 0 {
		t.Errorf("saves = %d, want 0", got)
	}
	if p.Dirty() {
		t.Error("load left the pipeline dirty")
	}
}

func TestFlushSavesImmediately(t *testing.T) {
	saver := &recordingSaver{}
	p := autosave.NewPipelineWithDebounce(saver, time.Hour)
	state := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, state)

	state.setGuest("Rossi")
	p.MarkDirty()

	if err := p.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := saver.saveCount(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}

func TestFailedSaveStaysDirty(t *testing.T) {
	saver := &recordingSaver{failNext: true}
	p := autosave.NewPipelineWithDebounce(saver, time.Hour)
	state := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, state)

	state.setGuest("Bianchi")
	p.MarkDirty()

	if err := p.Flush(context.Background()); err == nil {
		t.Fatal("Flush should surface the save error")
	}
	if !p.Dirty() {
		t.Error("failed save should leave the pipeline dirty")
	}

	// The retry succeeds.
	if err := p.Flush(context.Background()); err != nil {
		t.Fatalf("retry Flush: %v", err)
	}
	if p.Dirty() {
		t.Error("pipeline dirty after successful retry")
	}
}

func TestSwitchRoomFlushesOldRoom(t *testing.T) {
	saver := &recordingSaver{}
	p := autosave.NewPipelineWithDebounce(saver, time.Hour)
	oldRoom := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, oldRoom)

	oldRoom.setGuest("Verdi")
	p.MarkDirty()

	newRoom := &editable{account: models.RoomAccount{RoomNumber: 9}}
	if err := p.SwitchRoom(context.Background(), 9, newRoom.snapshot); err != nil {
		t.Fatalf("SwitchRoom: %v", err)
	}

	saver.mu.Lock()
	defer saver.mu.Unlock()
	if len(saver.saves) != 1 || saver.saves[0] != 5 {
		t.Errorf("saves = %v, want [5]", saver.saves)
	}
}

func TestEditDuringSaveQueuesFollowUp(t *testing.T) {
	block := make(chan struct{})
	saver := &recordingSaver{block: block}
	p := autosave.NewPipelineWithDebounce(saver, 10*time.Millisecond)
	state := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, state)

	state.setGuest("first")
	p.MarkDirty()
	time.Sleep(40 * time.Millisecond) // save is now in flight, parked on block

	// An edit while a save is running must queue exactly one follow-up
	// carrying the newer state, not race a second writer.
	state.setGuest("second")
	p.MarkDirty()
	time.Sleep(40 * time.Millisecond)

	saver.mu.Lock()
	saver.block = nil
	saver.mu.Unlock()
	close(block)
	time.Sleep(60 * time.Millisecond)

	saver.mu.Lock()
	defer saver.mu.Unlock()
	if len(saver.saves) != 2 {
		t.Fatalf("saves = %d, want 2 (in-flight save plus one follow-up)", len(saver.saves))
	}
	if saver.guests[1] != "second" {
		t.Errorf("follow-up saved guest %q, want %q", saver.guests[1], "second")
	}
}

func TestLastSavedRecordsTimestamp(t *testing.T) {
	saver := &recordingSaver{}
	p := autosave.NewPipelineWithDebounce(saver, time.Hour)
	state := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, state)

	if !p.LastSaved().IsZero() {
		t.Error("LastSaved should be zero before any save")
	}

	before := time.Now()
	state.setGuest("Rossi")
	p.MarkDirty()
	if err := p.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	saved := p.LastSaved()
	if saved.IsZero() || saved.Before(before) {
		t.Errorf("LastSaved = %v, want a timestamp at or after %v", saved, before)
	}
}

func TestShutdownFiresBestEffortSave(t *testing.T) {
	saver := &recordingSaver{}
	p := autosave.NewPipelineWithDebounce(saver, time.Hour)
	state := &editable{account: models.RoomAccount{RoomNumber: 5}}
	startEditing(p, 5, state)

	state.setGuest("Neri")
	p.MarkDirty()
	p.Shutdown()

	saver.mu.Lock()
	defer saver.mu.Unlock()
	if len(saver.syncSaves) != 1 || saver.syncSaves[0] != 5 {
		t.Errorf("syncSaves = %v, want [5]", saver.syncSaves)
	}

	// Edits after shutdown are dropped.
	p.MarkDirty()
	if p.Dirty() {
		t.Error("stopped pipeline accepted a dirty mark")
	}
}
