package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/RubachokBoss/course-admin/internal/models"
)

const dateParamLayout = "2006-01-02T15:04:05"

func (c *Client) Classes() Resource[models.Class] {
	return newResource[models.Class](c, "/classes")
}

func (c *Client) Assignments() Resource[models.Assignment] {
	return newResource[models.Assignment](c, "/assignments")
}

func (c *Client) Schedules() Resource[models.Schedule] {
	return newResource[models.Schedule](c, "/schedules")
}

func (c *Client) ClassTeams(ctx context.Context, classID int64) ([]models.Team, error) {
	return c.Teams().query(ctx, c.Classes().itemPath(classID)+"/teams")
}

func (c *Client) AddTeamToClass(ctx context.Context, classID, teamID int64) error {
	return c.doJSON(ctx, http.MethodPost, c.Classes().itemPath(classID)+"/teams/"+itoa(teamID), nil, nil)
}

func (c *Client) RemoveTeamFromClass(ctx context.Context, classID, teamID int64) error {
	return c.doJSON(ctx, http.MethodDelete, c.Classes().itemPath(classID)+"/teams/"+itoa(teamID), nil, nil)
}

func (c *Client) ClassesByProfessor(ctx context.Context, professorID int64) ([]models.Class, error) {
	return c.Classes().queryf(ctx, "/professor/%d", professorID)
}

func (c *Client) ClassesByTeam(ctx context.Context, teamID int64) ([]models.Class, error) {
	return c.Classes().queryf(ctx, "/team/%d", teamID)
}

func (c *Client) AssignmentsByDateRange(ctx context.Context, from, to time.Time) ([]models.Assignment, error) {
	return c.Assignments().queryParams(ctx, "/by-date-range", dateRange(from, to))
}

func (c *Client) UpcomingAssignments(ctx context.Context) ([]models.Assignment, error) {
	return c.Assignments().queryf(ctx, "/upcoming")
}

func (c *Client) ActiveAssignments(ctx context.Context) ([]models.Assignment, error) {
	return c.Assignments().queryf(ctx, "/active")
}

func (c *Client) PastAssignments(ctx context.Context) ([]models.Assignment, error) {
	return c.Assignments().queryf(ctx, "/past")
}

func (c *Client) SchedulesByAssignment(ctx context.Context, assignmentID int64) ([]models.Schedule, error) {
	return c.Schedules().queryf(ctx, "/by-assignment/%d", assignmentID)
}

func (c *Client) SchedulesByDay(ctx context.Context, day string) ([]models.Schedule, error) {
	return c.Schedules().queryf(ctx, "/by-day/%s", url.PathEscape(day))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
