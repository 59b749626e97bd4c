package history

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/fsutil"
)

// Store reads and rewrites the history ledger at a fixed path. All
// operations are read-modify-write over the whole file; ids are reassigned
// on save so they always form a contiguous sequence starting at 1.
type Store struct {
	path string
}

// NewStore creates a store backed by the given ledger path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append records a completed transaction and returns its assigned id.
func (s *Store) Append(entry *Entry) (int, error) {
	entries, err := s.load()
	if err != nil {
		return 0, err
	}
	entry.ID = len(entries) + 1
	entries = append(entries, entry)
	if err := s.save(entries); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// List returns all entries in id order. An empty ledger is not an error.
func (s *Store) List() ([]*Entry, error) {
	return s.load()
}

// Get returns the entry with the given id.
func (s *Store) Get(id int) (*Entry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrHistoryEntryNotFound,
		"transaction %d does not exist in the history", id)
}

// Last returns the entry with the highest id.
func (s *Store) Last() (*Entry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.ErrNoHistory
	}
	return entries[len(entries)-1], nil
}

// ResolveID parses a history id argument; the literal "last" names the
// highest id.
func (s *Store) ResolveID(arg string) (int, error) {
	if strings.EqualFold(arg, "last") {
		last, err := s.Last()
		if err != nil {
			return 0, err
		}
		return last.ID, nil
	}
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, errors.Wrapf(errors.ErrHistoryEntryNotFound,
			"%q is not a transaction id", arg)
	}
	return id, nil
}

// Delete removes one entry and renumbers every later entry downward so the
// id sequence stays contiguous.
func (s *Store) Delete(id int) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	kept := entries[:0]
	found := false
	for _, entry := range entries {
		if entry.ID == id {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return errors.Wrapf(errors.ErrHistoryEntryNotFound,
			"transaction %d does not exist in the history", id)
	}
	return s.save(kept)
}

// Clear truncates the entire ledger.
func (s *Store) Clear() error {
	return s.save(nil)
}

func (s *Store) load() ([]*Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not read history file")
	}

	var raw map[string]*Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(errors.ErrHistoryCorrupt,
			"history file seems corrupt, you should try removing %s: %v", s.path, err)
	}

	entries := make([]*Entry, 0, len(raw))
	for key, entry := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return nil, errors.Wrapf(errors.ErrHistoryCorrupt,
				"history file seems corrupt, you should try removing %s: bad id %q",
				s.path, key)
		}
		entry.ID = id
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// save reassigns contiguous ids and rewrites the ledger. The write happens
// inside a deferred-signal section and lands via temp file plus rename, so
// an interrupt can never leave a half-written ledger behind.
func (s *Store) save(entries []*Entry) error {
	ledger := make(map[string]*Entry, len(entries))
	for i, entry := range entries {
		entry.ID = i + 1
		ledger[strconv.Itoa(entry.ID)] = entry
	}
	data, err := json.Marshal(ledger)
	if err != nil {
		return errors.Wrap(err, "could not encode history")
	}

	return withSignalsDeferred(func() error {
		if err := os.MkdirAll(filepath.Dir(s.path), fsutil.DirModeSecure); err != nil {
			return errors.Wrap(err, "could not create history directory")
		}
		tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp*")
		if err != nil {
			return errors.Wrap(err, "could not create temp history file")
		}
		tmpName := tmp.Name()
		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
			return errors.Wrap(err, "could not write history")
		}
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmpName)
			return errors.Wrap(err, "could not write history")
		}
		if err := os.Chmod(tmpName, fsutil.FileModeDefault); err != nil {
			_ = os.Remove(tmpName)
			return errors.Wrap(err, "could not write history")
		}
		if err := os.Rename(tmpName, s.path); err != nil {
			_ = os.Remove(tmpName)
			return errors.Wrap(err, "could not replace history file")
		}
		return nil
	})
}

// withSignalsDeferred holds interrupt and terminate signals for the duration
// of fn and re-raises one afterwards. The rename above is the real atomicity
// guarantee; this keeps the process alive through the whole write so the
// temp file is not orphaned.
func withSignalsDeferred(fn func() error) error {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigs)
		select {
		case sig := <-sigs:
			logger.Debug("re-raising signal deferred during history write",
				logger.Fields{"signal": fmt.Sprint(sig)})
			proc, err := os.FindProcess(os.Getpid())
			if err == nil {
				_ = proc.Signal(sig)
			}
		default:
		}
	}()
	return fn()
}
