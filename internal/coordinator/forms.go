package coordinator

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/RubachokBoss/course-admin/internal/cache"
	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

// dateInputLayout is the value format of datetime-local inputs.
const dateInputLayout = "2006-01-02T15:04"

type lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// references returns the cached list of kind, or reads it from the backend when the
// cache holds nothing.
func references[T any](ctx context.Context, shared Shared, kind string, src lister[T]) ([]T, error) {
	if items := cache.Get[T](shared.Cache, kind); len(items) > 0 {
		return items, nil
	}
	return src.List(ctx)
}

func options[T Entity](items []T) []view.Option {
	out := make([]view.Option, 0, len(items))
	for _, item := range items {
		out = append(out, view.Option{Value: idString(item.EntityID()), Label: item.DisplayName()})
	}
	return out
}

// professors keeps the users whose role is "Profesor". The role name is taken from the
// user when the backend joined it, otherwise from roles.
func professors(users []models.User, roles []models.Role) []models.User {
	names := make(map[int64]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}

	out := make([]models.User, 0)
	for _, u := range users {
		role := u.RoleName
		if role == "" {
			role = names[u.RoleID]
		}
		if strings.EqualFold(strings.TrimSpace(role), "profesor") {
			out = append(out, u)
		}
	}
	return out
}

func formString(values map[string][]string, key string) string {
	v := values[key]
	if len(v) == 0 {
		return ""
	}
	return strings.TrimSpace(v[0])
}

func formOptString(values map[string][]string, key string) *string {
	s := formString(values, key)
	if s == "" {
		return nil
	}
	return &s
}

func formInt(values map[string][]string, key string) int64 {
	id, err := strconv.ParseInt(formString(values, key), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func formOptInt(values map[string][]string, key string) *int64 {
	id := formInt(values, key)
	if id <= 0 {
		return nil
	}
	return &id
}

func formIDs(values map[string][]string, key string) []int64 {
	out := make([]int64, 0, len(values[key]))
	for _, raw := range values[key] {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		out = append(out, id)
	}
	return out
}

func formFloat(values map[string][]string, key string) *float64 {
	s := strings.ReplaceAll(formString(values, key), ",", ".")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// formDate reads a datetime-local or date input in local time. Anything else is an
// invalid (zero) date.
func formDate(values map[string][]string, key string) models.BackendTime {
	s := formString(values, key)
	for _, layout := range []string{dateInputLayout, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return models.NewBackendTime(t)
		}
	}
	return models.BackendTime{}
}

func dateInput(t models.BackendTime) string {
	if !t.Valid() {
		return ""
	}
	return t.Format(dateInputLayout)
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func idStrings(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, idString(id))
	}
	return out
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
