// Package coordinator holds one view coordinator per entity. A coordinator owns the
// last loaded list of its entity, renders it into its table region and drives the
// create, edit, delete and detail flows against the backend.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-admin/internal/apiclient"
	"github.com/RubachokBoss/course-admin/internal/cache"
	"github.com/RubachokBoss/course-admin/internal/metrics"
	"github.com/RubachokBoss/course-admin/internal/validation"
	"github.com/RubachokBoss/course-admin/internal/view"
)

// Section names double as cache kinds.
const (
	SectionUsers       = "users"
	SectionRoles       = "roles"
	SectionTeams       = "teams"
	SectionClasses     = "classes"
	SectionAssignments = "assignments"
	SectionSubmissions = "submissions"
	SectionEvaluations = "evaluations"
	SectionFeedback    = "feedback"
)

// Sections lists every section in navigation order.
var Sections = []string{
	SectionUsers,
	SectionRoles,
	SectionTeams,
	SectionClasses,
	SectionAssignments,
	SectionSubmissions,
	SectionEvaluations,
	SectionFeedback,
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadError
	StateSubmitting
	StateDeleting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadError:
		return "load_error"
	case StateSubmitting:
		return "submitting"
	case StateDeleting:
		return "deleting"
	}
	return "unknown"
}

type Entity interface {
	EntityID() int64
	DisplayName() string
}

// Backend is the CRUD surface of one backend collection.
type Backend[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, body any) (*T, error)
	Update(ctx context.Context, id int64, body any) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Shared is what every coordinator gets at construction: the transport, the shared
// list cache, the notifier and the surface it renders into.
type Shared struct {
	API       *apiclient.Client
	Cache     *cache.Store
	Surface   view.Surface
	Notifier  view.Notifier
	Validator *validation.Validator
	Logger    zerolog.Logger
}

func (s Shared) notify(message string, severity view.Severity) {
	if s.Notifier != nil {
		s.Notifier.Notify(message, severity)
		return
	}
	s.Surface.Notify(message, severity)
}

// Component is the contract the panel drives every section through.
type Component interface {
	Name() string
	Template() view.Template
	State() State
	Len() int

	Prefetch(ctx context.Context) error
	Load(ctx context.Context) error
	Restore(ctx context.Context) bool
	Render()

	ShowCreateModal(ctx context.Context) error
	SubmitCreate(ctx context.Context, values url.Values) error
	Edit(ctx context.Context, id int64) error
	SubmitEdit(ctx context.Context, id int64, values url.Values) error
	Delete(ctx context.Context, id int64) error
	View(ctx context.Context, id int64) error
}

type messages struct {
	created string
	updated string
	deleted string
	confirm string
}

type definition[T Entity] struct {
	section   string
	title     string
	singular  string
	plural    string
	columns   []string
	emptyText string
	messages  messages

	row    func(T) []view.Cell
	detail func(ctx context.Context, item T) view.Detail
	// form builds the dialog; item is nil for creation
	form   func(ctx context.Context, item *T) (view.Form, error)
	decode func(values url.Values, item *T) any
	// deletePrompt names the item in the confirmation; nil keeps the generic prompt
	deletePrompt func(T) string
}

func (d definition[T]) regionID() string {
	return d.section + "-table-body"
}

type crud[T Entity] struct {
	def     definition[T]
	backend Backend[T]
	shared  Shared
	logger  zerolog.Logger
	now     func() time.Time

	mu    sync.Mutex
	items []T
	state State
	token atomic.Uint64

	// visible overrides the rendered list (filtered views)
	visible  func() []T
	onLoaded func(ctx context.Context)
	regions  []string
}

func newCRUD[T Entity](def definition[T], backend Backend[T], shared Shared) *crud[T] {
	return &crud[T]{
		def:     def,
		backend: backend,
		shared:  shared,
		logger:  shared.Logger.With().Str("section", def.section).Logger(),
		now:     time.Now,
		items:   []T{},
	}
}

func (c *crud[T]) Name() string {
	return c.def.section
}

func (c *crud[T]) Template() view.Template {
	regions := append([]string{c.def.regionID()}, c.regions...)
	return view.Template{Section: c.def.section, Title: c.def.title, Regions: regions}
}

func (c *crud[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *crud[T]) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *crud[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy of the last loaded list.
func (c *crud[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Prefetch fills the shared cache without touching local state.
func (c *crud[T]) Prefetch(ctx context.Context) error {
	items, err := c.backend.List(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to prefetch data")
		return err
	}
	cache.Put(c.shared.Cache, c.def.section, items)
	return nil
}

// Load replaces the local list with a fresh backend read. A load that was overtaken
// by a newer one is dropped without touching state.
func (c *crud[T]) Load(ctx context.Context) error {
	token := c.token.Add(1)

	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	items, err := c.backend.List(ctx)

	c.mu.Lock()
	if token != c.token.Load() {
		c.mu.Unlock()
		metrics.StaleLoadsDiscarded.WithLabelValues(c.def.section).Inc()
		c.logger.Debug().Uint64("token", token).Msg("Discarding superseded load")
		return nil
	}
	if err != nil {
		c.state = StateLoadError
		c.mu.Unlock()
		c.count("load", err)
		c.logger.Warn().Err(err).Msg("Failed to load data")
		c.shared.notify(fmt.Sprintf("Error al cargar %s: %s", c.def.plural, err.Error()), view.SeverityError)
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.state = StateLoaded
	c.mu.Unlock()

	cache.Put(c.shared.Cache, c.def.section, items)
	c.count("load", nil)

	if c.onLoaded != nil {
		c.onLoaded(ctx)
	}
	c.Render()
	return nil
}

// Restore takes the local list from the shared cache. It reports false when the cache
// holds nothing for this section.
func (c *crud[T]) Restore(ctx context.Context) bool {
	items := cache.Get[T](c.shared.Cache, c.def.section)
	if len(items) == 0 {
		return false
	}

	c.mu.Lock()
	c.items = items
	c.state = StateLoaded
	c.mu.Unlock()

	if c.onLoaded != nil {
		c.onLoaded(ctx)
	}
	return true
}

// Render rebuilds the table region from local state only. It is a no-op while the
// section is not mounted.
func (c *crud[T]) Render() {
	region, ok := c.shared.Surface.Region(c.def.regionID())
	if !ok {
		return
	}

	var items []T
	if c.visible != nil {
		items = c.visible()
	} else {
		items = c.Items()
	}

	table := view.Table{Columns: c.def.columns}
	if len(items) == 0 {
		table.Rows = []view.Row{{
			Placeholder: true,
			Cells:       []view.Cell{{Text: c.def.emptyText}},
		}}
		region.SetTable(table)
		return
	}

	table.Rows = make([]view.Row, 0, len(items))
	for _, item := range items {
		table.Rows = append(table.Rows, view.Row{ID: item.EntityID(), Cells: c.def.row(item)})
	}
	region.SetTable(table)
}

func (c *crud[T]) ShowCreateModal(ctx context.Context) error {
	form, err := c.def.form(ctx, nil)
	if err != nil {
		c.shared.notify("Error al cargar datos del formulario: "+err.Error(), view.SeverityError)
		return err
	}
	c.shared.Surface.OpenForm(form)
	return nil
}

func (c *crud[T]) SubmitCreate(ctx context.Context, values url.Values) error {
	return c.submit(ctx, "create", nil, values)
}

func (c *crud[T]) Edit(ctx context.Context, id int64) error {
	item, err := c.backend.Get(ctx, id)
	if err != nil {
		c.shared.notify(fmt.Sprintf("Error al cargar %s: %s", c.def.singular, err.Error()), view.SeverityError)
		return err
	}

	form, err := c.def.form(ctx, item)
	if err != nil {
		c.shared.notify("Error al cargar datos del formulario: "+err.Error(), view.SeverityError)
		return err
	}
	c.shared.Surface.OpenForm(form)
	return nil
}

func (c *crud[T]) SubmitEdit(ctx context.Context, id int64, values url.Values) error {
	item, err := c.backend.Get(ctx, id)
	if err != nil {
		c.shared.notify(fmt.Sprintf("Error al cargar %s: %s", c.def.singular, err.Error()), view.SeverityError)
		return err
	}
	return c.submit(ctx, "update", item, values)
}

// submit validates the form, writes it and reloads. On failure the dialog stays open
// with the submitted values.
func (c *crud[T]) submit(ctx context.Context, op string, item *T, values url.Values) error {
	body := c.def.decode(values, item)

	if err := c.shared.Validator.Struct(body); err != nil {
		c.count(op, err)
		c.shared.notify(err.Error(), view.SeverityError)
		c.reopen(ctx, item, values, err)
		return err
	}

	prev := c.State()
	c.setState(StateSubmitting)

	var err error
	if item == nil {
		_, err = c.backend.Create(ctx, body)
	} else {
		_, err = c.backend.Update(ctx, (*item).EntityID(), body)
	}
	if err != nil {
		c.setState(settled(prev))
		c.count(op, err)
		verb := "crear"
		if item != nil {
			verb = "actualizar"
		}
		c.logger.Warn().Err(err).Str("operation", op).Msg("Write rejected")
		c.shared.notify(fmt.Sprintf("Error al %s %s: %s", verb, c.def.singular, err.Error()), view.SeverityError)
		c.reopen(ctx, item, values, err)
		return err
	}

	c.count(op, nil)
	c.shared.Surface.CloseDialog()
	if item == nil {
		c.shared.notify(c.def.messages.created, view.SeveritySuccess)
	} else {
		c.shared.notify(c.def.messages.updated, view.SeveritySuccess)
	}
	return c.Load(ctx)
}

func (c *crud[T]) reopen(ctx context.Context, item *T, values url.Values, cause error) {
	form, err := c.def.form(ctx, item)
	if err != nil {
		return
	}
	form = form.WithValues(values)
	form.Error = cause.Error()
	c.shared.Surface.OpenForm(form)
}

func (c *crud[T]) Delete(ctx context.Context, id int64) error {
	prompt := c.def.messages.confirm
	if c.def.deletePrompt != nil {
		// имя нужно только для текста подтверждения
		if item, err := c.backend.Get(ctx, id); err == nil {
			prompt = c.def.deletePrompt(*item)
		}
	}

	if !c.shared.Surface.Confirm(ctx, prompt) {
		return nil
	}

	prev := c.State()
	c.setState(StateDeleting)

	if err := c.backend.Delete(ctx, id); err != nil {
		c.setState(settled(prev))
		c.count("delete", err)
		c.shared.notify(fmt.Sprintf("Error al eliminar %s: %s", c.def.singular, err.Error()), view.SeverityError)
		return err
	}

	c.count("delete", nil)
	c.shared.notify(c.def.messages.deleted, view.SeveritySuccess)
	return c.Load(ctx)
}

func (c *crud[T]) View(ctx context.Context, id int64) error {
	item, err := c.backend.Get(ctx, id)
	if err != nil {
		c.shared.notify("Error al cargar detalles: "+err.Error(), view.SeverityError)
		return err
	}
	c.shared.Surface.OpenDetail(c.def.detail(ctx, *item))
	return nil
}

func (c *crud[T]) count(op string, err error) {
	outcome := "ok"
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	}
	metrics.CoordinatorOperations.WithLabelValues(c.def.section, op, outcome).Inc()
}

// settled is the state a failed write falls back to.
func settled(prev State) State {
	switch prev {
	case StateSubmitting, StateDeleting, StateLoading:
		return StateLoaded
	}
	return prev
}
