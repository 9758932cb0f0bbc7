package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/RubachokBoss/course-admin/internal/models"
)

func (c *Client) Users() Resource[models.User] {
	return newResource[models.User](c, "/users")
}

func (c *Client) Roles() Resource[models.Role] {
	return newResource[models.Role](c, "/roles")
}

func (c *Client) Teams() Resource[models.Team] {
	return newResource[models.Team](c, "/teams")
}

func (c *Client) UsersByRole(ctx context.Context, roleID int64) ([]models.User, error) {
	return c.Users().queryf(ctx, "/by-role/%d", roleID)
}

func (c *Client) UsersByTeam(ctx context.Context, teamID int64) ([]models.User, error) {
	return c.Users().queryf(ctx, "/by-team/%d", teamID)
}

func (c *Client) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.Users().getf(ctx, "/email/%s", url.PathEscape(email))
}

func (c *Client) SearchUsers(ctx context.Context, name string) ([]models.User, error) {
	return c.Users().queryParams(ctx, "/search", url.Values{"name": {name}})
}

func (c *Client) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	return c.Roles().getf(ctx, "/name/%s", url.PathEscape(name))
}

func (c *Client) TeamsByUser(ctx context.Context, userID int64) ([]models.Team, error) {
	return c.Teams().queryf(ctx, "/by-user/%d", userID)
}

func (c *Client) TeamByName(ctx context.Context, name string) (*models.Team, error) {
	return c.Teams().getf(ctx, "/name/%s", url.PathEscape(name))
}

func (c *Client) AddUserToTeam(ctx context.Context, teamID, userID int64) (*models.Team, error) {
	var out models.Team
	if err := c.doJSON(ctx, http.MethodPost, c.Teams().itemPath(teamID)+"/users/"+itoa(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveUserFromTeam(ctx context.Context, teamID, userID int64) error {
	return c.doJSON(ctx, http.MethodDelete, c.Teams().itemPath(teamID)+"/users/"+itoa(userID), nil, nil)
}

// ReplaceTeamUsers overwrites the team membership wholesale.
func (c *Client) ReplaceTeamUsers(ctx context.Context, teamID int64, userIDs []int64) (*models.Team, error) {
	if userIDs == nil {
		userIDs = []int64{}
	}
	var out models.Team
	if err := c.doJSON(ctx, http.MethodPut, c.Teams().itemPath(teamID)+"/users", userIDs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
