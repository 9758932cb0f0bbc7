package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxToasts = 20

type Toast struct {
	ID       string
	Message  string
	Severity Severity
	Class    string
	At       time.Time
}

type regionState struct {
	table   *Table
	filters *FilterPanel
}

// Screen is a thread-safe in-memory Surface. It keeps the state of one panel: the
// mounted sections and their regions, the open dialog, toasts and the spinner.
type Screen struct {
	mu      sync.RWMutex
	mounted map[string]Template
	regions map[string]*regionState
	active  string
	loading int
	toasts  []Toast
	form    *Form
	detail  *Detail
	prompt  string
	now     func() time.Time
}

func NewScreen() *Screen {
	return &Screen{
		mounted: make(map[string]Template),
		regions: make(map[string]*regionState),
		now:     time.Now,
	}
}

func (s *Screen) Notify(message string, severity Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toasts = append(s.toasts, Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
		Class:    ToastClass(severity),
		At:       s.now(),
	})
	if len(s.toasts) > maxToasts {
		s.toasts = s.toasts[len(s.toasts)-maxToasts:]
	}
}

type regionHandle struct {
	screen *Screen
	id     string
}

func (h regionHandle) SetTable(t Table) {
	h.screen.mu.Lock()
	defer h.screen.mu.Unlock()
	if r, ok := h.screen.regions[h.id]; ok {
		r.table = &t
	}
}

func (h regionHandle) SetFilters(f FilterPanel) {
	h.screen.mu.Lock()
	defer h.screen.mu.Unlock()
	if r, ok := h.screen.regions[h.id]; ok {
		r.filters = &f
	}
}

func (s *Screen) Region(id string) (Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.regions[id]; !ok {
		return nil, false
	}
	return regionHandle{screen: s, id: id}, true
}

// Mount injects a section template once. It reports whether anything was mounted.
func (s *Screen) Mount(t Template) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mounted[t.Section]; ok {
		return false
	}
	s.mounted[t.Section] = t
	for _, id := range t.Regions {
		if _, ok := s.regions[id]; !ok {
			s.regions[id] = &regionState{}
		}
	}
	return true
}

func (s *Screen) Show(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = section
}

func (s *Screen) SetLoading(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.loading++
		return
	}
	if s.loading > 0 {
		s.loading--
	}
}

func (s *Screen) OpenForm(f Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = &f
	s.detail = nil
}

func (s *Screen) OpenDetail(d Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = &d
	s.form = nil
}

func (s *Screen) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = nil
	s.detail = nil
}

// Confirm records the prompt and answers with the confirmation carried by ctx.
// Without one the action is treated as not confirmed.
func (s *Screen) Confirm(ctx context.Context, prompt string) bool {
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()

	confirmed, ok := ConfirmationFrom(ctx)
	return ok && confirmed
}

func (s *Screen) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Screen) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *Screen) Mounted(section string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mounted[section]
	return ok
}

func (s *Screen) Template(section string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.mounted[section]
	return t, ok
}

func (s *Screen) Table(id string) (Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regions[id]
	if !ok || r.table == nil {
		return Table{}, false
	}
	return *r.table, true
}

func (s *Screen) Filters(id string) (FilterPanel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regions[id]
	if !ok || r.filters == nil {
		return FilterPanel{}, false
	}
	return *r.filters, true
}

func (s *Screen) Form() (Form, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.form == nil {
		return Form{}, false
	}
	return *s.form, true
}

func (s *Screen) Detail() (Detail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.detail == nil {
		return Detail{}, false
	}
	return *s.detail, true
}

func (s *Screen) LastPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

func (s *Screen) Toasts() []Toast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Toast(nil), s.toasts...)
}

// DrainToasts returns pending toasts and clears them.
func (s *Screen) DrainToasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.toasts
	s.toasts = nil
	return out
}
