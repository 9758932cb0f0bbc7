package coordinator

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RubachokBoss/course-admin/internal/apiclient"
	"github.com/RubachokBoss/course-admin/internal/cache"
	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/validation"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type MockBackend[T any] struct {
	mock.Mock
}

func (m *MockBackend[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockBackend[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockBackend[T]) Create(ctx context.Context, body any) (*T, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockBackend[T]) Update(ctx context.Context, id int64, body any) (*T, error) {
	args := m.Called(ctx, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockBackend[T]) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newShared(api *apiclient.Client) (Shared, *view.Screen) {
	screen := view.NewScreen()
	return Shared{
		API:       api,
		Cache:     cache.New(),
		Surface:   screen,
		Validator: validation.New(),
		Logger:    zerolog.Nop(),
	}, screen
}

func mockedRoles(t *testing.T) (*Roles, *MockBackend[models.Role], *view.Screen) {
	t.Helper()
	shared, screen := newShared(nil)
	roles := NewRoles(shared)
	backend := &MockBackend[models.Role]{}
	roles.backend = backend
	screen.Mount(roles.Template())
	return roles, backend, screen
}

func rowIDs(table view.Table) []int64 {
	ids := make([]int64, 0, len(table.Rows))
	for _, r := range table.Rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func messagesOf(screen *view.Screen) []string {
	var out []string
	for _, t := range screen.DrainToasts() {
		out = append(out, t.Message)
	}
	return out
}

func TestLoad_RendersRowsInFetchOrder(t *testing.T) {
	roles, backend, screen := mockedRoles(t)
	ctx := context.Background()

	backend.On("List", mock.Anything).Return([]models.Role{
		{ID: 3, Name: "Estudiante"},
		{ID: 1, Name: "Profesor"},
		{ID: 2, Name: "Auxiliar"},
	}, nil).Once()

	require.NoError(t, roles.Load(ctx))

	table, ok := screen.Table("roles-table-body")
	require.True(t, ok)
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(table))
	assert.Equal(t, "bg-secondary", table.Rows[0].Cells[1].Badge)
	assert.Equal(t, StateLoaded, roles.State())
	assert.Equal(t, 3, roles.shared.Cache.Len(SectionRoles))
	backend.AssertExpectations(t)
}

func TestLoad_EmptyListRendersPlaceholder(t *testing.T) {
	roles, backend, screen := mockedRoles(t)
	backend.On("List", mock.Anything).Return([]models.Role{}, nil).Once()

	require.NoError(t, roles.Load(context.Background()))

	table, _ := screen.Table("roles-table-body")
	require.Len(t, table.Rows, 1)
	assert.True(t, table.Rows[0].Placeholder)
	assert.Equal(t, "No hay roles para mostrar", table.Rows[0].Cells[0].Text)
}

func TestLoad_FailureKeepsPriorList(t *testing.T) {
	roles, backend, screen := mockedRoles(t)
	ctx := context.Background()

	backend.On("List", mock.Anything).Return([]models.Role{{ID: 1, Name: "Profesor"}}, nil).Once()
	backend.On("List", mock.Anything).Return(nil, &apiclient.Error{Status: 500, Message: "HTTP 500: boom"}).Once()

	require.NoError(t, roles.Load(ctx))
	screen.DrainToasts()

	err := roles.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, StateLoadError, roles.State())
	assert.Equal(t, []models.Role{{ID: 1, Name: "Profesor"}}, roles.Items())
	assert.Equal(t, []string{"Error al cargar roles: HTTP 500: boom"}, messagesOf(screen))

	table, _ := screen.Table("roles-table-body")
	assert.Equal(t, []int64{1}, rowIDs(table))
}

func TestRender_WithoutMountedRegionIsNoop(t *testing.T) {
	shared, screen := newShared(nil)
	roles := NewRoles(shared)
	backend := &MockBackend[models.Role]{}
	roles.backend = backend
	backend.On("List", mock.Anything).Return([]models.Role{{ID: 1}}, nil).Once()

	require.NoError(t, roles.Load(context.Background()))
	assert.NotPanics(t, roles.Render)

	_, ok := screen.Table("roles-table-body")
	assert.False(t, ok)
	assert.Equal(t, 1, roles.Len())
}

// gatedBackend answers the n-th List call only when gates[n] is fed.
type gatedBackend struct {
	MockBackend[models.Role]
	mu      sync.Mutex
	calls   int
	gates   []chan []models.Role
	started chan struct{}
}

func (g *gatedBackend) List(ctx context.Context) ([]models.Role, error) {
	g.mu.Lock()
	gate := g.gates[g.calls]
	g.calls++
	g.mu.Unlock()

	g.started <- struct{}{}
	return <-gate, nil
}

func TestLoad_DiscardsSupersededResult(t *testing.T) {
	shared, screen := newShared(nil)
	roles := NewRoles(shared)
	backend := &gatedBackend{
		gates:   []chan []models.Role{make(chan []models.Role), make(chan []models.Role)},
		started: make(chan struct{}),
	}
	roles.backend = backend
	screen.Mount(roles.Template())
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- roles.Load(ctx) }()
	<-backend.started

	second := make(chan error, 1)
	go func() { second <- roles.Load(ctx) }()
	<-backend.started

	backend.gates[1] <- []models.Role{{ID: 2, Name: "nuevo"}}
	require.NoError(t, <-second)

	backend.gates[0] <- []models.Role{{ID: 1, Name: "viejo"}}
	require.NoError(t, <-first)

	assert.Equal(t, []models.Role{{ID: 2, Name: "nuevo"}}, roles.Items())
	table, _ := screen.Table("roles-table-body")
	assert.Equal(t, []int64{2}, rowIDs(table))
	assert.Equal(t, "nuevo", cache.Get[models.Role](shared.Cache, SectionRoles)[0].Name)
}

func TestSubmitCreate_ValidationBlocksBackend(t *testing.T) {
	roles, backend, screen := mockedRoles(t)

	err := roles.SubmitCreate(context.Background(), url.Values{"name": {"  "}})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name"}, verr.Fields)
	backend.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	form, ok := screen.Form()
	require.True(t, ok)
	assert.Equal(t, verr.Error(), form.Error)
	assert.Equal(t, []string{"Por favor complete correctamente los campos: name"}, messagesOf(screen))
}

func TestSubmitCreate_SuccessClosesDialogAndReloads(t *testing.T) {
	roles, backend, screen := mockedRoles(t)
	ctx := context.Background()

	require.NoError(t, roles.ShowCreateModal(ctx))
	_, open := screen.Form()
	require.True(t, open)

	backend.On("Create", mock.Anything, models.RoleRequest{Name: "Auxiliar"}).
		Return(&models.Role{ID: 9, Name: "Auxiliar"}, nil).Once()
	backend.On("List", mock.Anything).Return([]models.Role{{ID: 9, Name: "Auxiliar"}}, nil).Once()

	require.NoError(t, roles.SubmitCreate(ctx, url.Values{"name": {"Auxiliar"}}))

	_, open = screen.Form()
	assert.False(t, open)
	assert.Equal(t, []string{"Rol creado exitosamente"}, messagesOf(screen))
	assert.Equal(t, StateLoaded, roles.State())
	backend.AssertExpectations(t)
}

func TestSubmitCreate_BackendErrorKeepsDialogOpen(t *testing.T) {
	roles, backend, screen := mockedRoles(t)

	backend.On("Create", mock.Anything, mock.Anything).
		Return(nil, &apiclient.Error{Status: 409, Message: "HTTP 409: El rol ya existe"}).Once()

	err := roles.SubmitCreate(context.Background(), url.Values{"name": {"Profesor"}})
	require.Error(t, err)

	form, ok := screen.Form()
	require.True(t, ok)
	assert.Equal(t, "Profesor", form.Fields[0].Value)
	assert.Equal(t, []string{"Error al crear rol: HTTP 409: El rol ya existe"}, messagesOf(screen))
	backend.AssertNotCalled(t, "List", mock.Anything)
}

func TestSubmitEdit_UpdatesByID(t *testing.T) {
	roles, backend, screen := mockedRoles(t)
	ctx := context.Background()

	backend.On("Get", mock.Anything, int64(4)).Return(&models.Role{ID: 4, Name: "Profe"}, nil)
	backend.On("Update", mock.Anything, int64(4), models.RoleRequest{Name: "Profesor"}).
		Return(&models.Role{ID: 4, Name: "Profesor"}, nil).Once()
	backend.On("List", mock.Anything).Return([]models.Role{{ID: 4, Name: "Profesor"}}, nil).Once()

	require.NoError(t, roles.Edit(ctx, 4))
	form, ok := screen.Form()
	require.True(t, ok)
	assert.Equal(t, "Profe", form.Fields[0].Value)
	assert.Equal(t, int64(4), form.EntityID)

	require.NoError(t, roles.SubmitEdit(ctx, 4, url.Values{"name": {"Profesor"}}))
	assert.Equal(t, []string{"Rol actualizado exitosamente"}, messagesOf(screen))
	backend.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	t.Run("declined confirmation is a silent no-op", func(t *testing.T) {
		roles, backend, screen := mockedRoles(t)

		err := roles.Delete(view.WithConfirmation(context.Background(), false), 1)
		require.NoError(t, err)

		assert.Equal(t, "¿Está seguro de que desea eliminar este rol?", screen.LastPrompt())
		assert.Empty(t, messagesOf(screen))
		backend.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("failure leaves the list untouched", func(t *testing.T) {
		roles, backend, screen := mockedRoles(t)
		ctx := view.WithConfirmation(context.Background(), true)

		backend.On("List", mock.Anything).Return([]models.Role{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, nil).Once()
		require.NoError(t, roles.Load(ctx))
		before := roles.Items()

		backend.On("Delete", mock.Anything, int64(99)).
			Return(&apiclient.Error{Status: 404, Message: "HTTP 404: X"}).Once()

		err := roles.Delete(ctx, 99)
		require.Error(t, err)
		assert.Equal(t, before, roles.Items())
		assert.Equal(t, StateLoaded, roles.State())
		assert.Contains(t, messagesOf(screen), "Error al eliminar rol: HTTP 404: X")
		backend.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("success reloads the list", func(t *testing.T) {
		roles, backend, screen := mockedRoles(t)
		ctx := view.WithConfirmation(context.Background(), true)

		backend.On("Delete", mock.Anything, int64(2)).Return(nil).Once()
		backend.On("List", mock.Anything).Return([]models.Role{{ID: 1, Name: "A"}}, nil).Once()

		require.NoError(t, roles.Delete(ctx, 2))
		assert.Equal(t, []string{"Rol eliminado exitosamente"}, messagesOf(screen))
		assert.Equal(t, 1, roles.Len())
		backend.AssertExpectations(t)
	})
}

func TestDelete_PromptNamesTheItem(t *testing.T) {
	shared, screen := newShared(nil)
	users := NewUsers(shared)
	backend := &MockBackend[models.User]{}
	users.backend = backend
	ctx := view.WithConfirmation(context.Background(), false)

	backend.On("Get", mock.Anything, int64(1)).Return(&models.User{ID: 1, Name: "Ana"}, nil).Once()
	require.NoError(t, users.Delete(ctx, 1))
	assert.Equal(t, "¿Estás seguro de que quieres eliminar al usuario \"Ana\"?\n\nEsta acción no se puede deshacer.", screen.LastPrompt())

	backend.On("Get", mock.Anything, int64(2)).Return(nil, errors.New("HTTP 500: caído")).Once()
	require.NoError(t, users.Delete(ctx, 2))
	assert.Equal(t, "¿Estás seguro de que quieres eliminar este usuario?\n\nEsta acción no se puede deshacer.", screen.LastPrompt())

	backend.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestView_OpensDetail(t *testing.T) {
	roles, backend, screen := mockedRoles(t)
	backend.On("Get", mock.Anything, int64(5)).Return(&models.Role{ID: 5, Name: "Profesor"}, nil).Once()

	require.NoError(t, roles.View(context.Background(), 5))

	detail, ok := screen.Detail()
	require.True(t, ok)
	assert.Equal(t, "Detalles del rol", detail.Title)
	assert.Contains(t, detail.Items, view.DetailItem{Label: "Nombre", Value: "Profesor"})
}

func TestRestore_FromCache(t *testing.T) {
	roles, backend, screen := mockedRoles(t)

	assert.False(t, roles.Restore(context.Background()))

	cache.Put(roles.shared.Cache, SectionRoles, []models.Role{{ID: 7, Name: "Profesor"}})
	require.True(t, roles.Restore(context.Background()))
	roles.Render()

	table, _ := screen.Table("roles-table-body")
	assert.Equal(t, []int64{7}, rowIDs(table))
	backend.AssertNotCalled(t, "List", mock.Anything)
}
