// Package panel is the top-level orchestrator: it owns the shared list cache, the
// bootstrap fetch and section navigation, and delegates everything else to the
// per-entity coordinators.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/RubachokBoss/course-admin/internal/coordinator"
	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/spreadsheet"
	"github.com/RubachokBoss/course-admin/internal/view"
)

var ErrUnknownSection = errors.New("unknown section")

type Panel struct {
	shared     coordinator.Shared
	components map[string]coordinator.Component
	evaluation *coordinator.Evaluations
	logger     zerolog.Logger

	mu      sync.Mutex
	current string
}

// New builds every coordinator around one shared context. Notifications from the
// coordinators are routed through the panel.
func New(shared coordinator.Shared) *Panel {
	p := &Panel{
		components: make(map[string]coordinator.Component, len(coordinator.Sections)),
		logger:     shared.Logger.With().Str("component", "panel").Logger(),
	}
	shared.Notifier = p
	p.shared = shared

	p.evaluation = coordinator.NewEvaluations(shared)
	for _, c := range []coordinator.Component{
		coordinator.NewUsers(shared),
		coordinator.NewRoles(shared),
		coordinator.NewTeams(shared),
		coordinator.NewClasses(shared),
		coordinator.NewAssignments(shared),
		coordinator.NewSubmissions(shared),
		p.evaluation,
		coordinator.NewFeedback(shared),
	} {
		p.components[c.Name()] = c
	}
	return p
}

func (p *Panel) Component(section string) (coordinator.Component, error) {
	c, ok := p.components[section]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return c, nil
}

func (p *Panel) Evaluations() *coordinator.Evaluations {
	return p.evaluation
}

func (p *Panel) Surface() view.Surface {
	return p.shared.Surface
}

// Current is the section shown last, or "" before any navigation.
func (p *Panel) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Panel) Notify(message string, severity view.Severity) {
	event := p.logger.Info()
	if severity == view.SeverityError {
		event = p.logger.Warn()
	}
	event.Str("severity", string(severity)).Msg(message)
	p.shared.Surface.Notify(message, severity)
}

// WithLoading shows the loading indicator while fn runs.
func (p *Panel) WithLoading(fn func() error) error {
	p.shared.Surface.SetLoading(true)
	defer p.shared.Surface.SetLoading(false)
	return fn()
}

// Bootstrap fetches every list in parallel into the cache. When any fetch fails the
// cache is reset to empty lists for every section.
func (p *Panel) Bootstrap(ctx context.Context) error {
	return p.WithLoading(func() error {
		g, gctx := errgroup.WithContext(ctx)
		for _, section := range coordinator.Sections {
			c := p.components[section]
			g.Go(func() error {
				return c.Prefetch(gctx)
			})
		}

		if err := g.Wait(); err != nil {
			p.shared.Cache.Reset(coordinator.Sections...)
			p.Notify("Error al cargar datos iniciales: "+err.Error(), view.SeverityError)
			return err
		}

		p.logger.Info().Msg("Initial data loaded")
		return nil
	})
}

// ShowSection switches the visible section, mounts its template the first time and
// fills its table from the cache, or from the backend when the cache is empty.
func (p *Panel) ShowSection(ctx context.Context, section string) error {
	c, err := p.Component(section)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.current = section
	p.mu.Unlock()

	p.shared.Surface.Show(section)
	if p.shared.Surface.Mount(c.Template()) {
		p.logger.Debug().Str("section", section).Msg("Section template mounted")
	}

	return p.WithLoading(func() error {
		if c.Restore(ctx) {
			c.Render()
			return nil
		}
		return c.Load(ctx)
	})
}

// RefreshAll re-runs the bootstrap and reloads the current section.
func (p *Panel) RefreshAll(ctx context.Context) error {
	if err := p.Bootstrap(ctx); err != nil {
		return err
	}

	current := p.Current()
	if current == "" {
		return nil
	}
	c, err := p.Component(current)
	if err != nil {
		return err
	}
	return p.WithLoading(func() error {
		return c.Load(ctx)
	})
}

// Import checks a spreadsheet locally, uploads it and refreshes every list.
func (p *Panel) Import(ctx context.Context, fileName string, content []byte) (*models.ImportReport, error) {
	summary, err := spreadsheet.Inspect(fileName, content)
	if err != nil {
		p.Notify("Error al importar: "+err.Error(), view.SeverityError)
		return nil, err
	}
	p.logger.Info().Str("file", fileName).Int("rows", summary.Rows).Msg("Uploading spreadsheet")

	var report *models.ImportReport
	err = p.WithLoading(func() error {
		var err error
		report, err = p.shared.API.ImportSpreadsheet(ctx, fileName, content)
		return err
	})
	if err != nil {
		p.Notify("Error al importar: "+err.Error(), view.SeverityError)
		return nil, err
	}

	if report.Success {
		p.Notify(fmt.Sprintf("Importación completada: %d registros procesados", report.Stats.TotalProcessed), view.SeveritySuccess)
	} else {
		p.Notify("Importación con errores: "+models.OrDefault(report.Message, "revise el detalle"), view.SeverityWarning)
	}

	// обновляем данные даже после частичного импорта
	if err := p.RefreshAll(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to refresh after import")
	}
	return report, nil
}
