package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/RubachokBoss/course-admin/internal/models"
)

func (c *Client) Submissions() Resource[models.Submission] {
	return newResource[models.Submission](c, "/submissions")
}

func (c *Client) Evaluations() Resource[models.Evaluation] {
	return newResource[models.Evaluation](c, "/evaluations")
}

func (c *Client) Feedbacks() Resource[models.Feedback] {
	return newResource[models.Feedback](c, "/feedbacks")
}

func (c *Client) SubmissionsByAssignment(ctx context.Context, assignmentID int64) ([]models.Submission, error) {
	return c.Submissions().queryf(ctx, "/by-assignment/%d", assignmentID)
}

func (c *Client) SubmissionsByTeam(ctx context.Context, teamID int64) ([]models.Submission, error) {
	return c.Submissions().queryf(ctx, "/by-team/%d", teamID)
}

func (c *Client) SubmissionsByUser(ctx context.Context, userID int64) ([]models.Submission, error) {
	return c.Submissions().queryf(ctx, "/by-user/%d", userID)
}

func (c *Client) SubmissionByAssignmentAndTeam(ctx context.Context, assignmentID, teamID int64) (*models.Submission, error) {
	return c.Submissions().getf(ctx, "/assignment/%d/team/%d", assignmentID, teamID)
}

func (c *Client) EvaluationsBySubmission(ctx context.Context, submissionID int64) ([]models.Evaluation, error) {
	return c.Evaluations().queryf(ctx, "/by-submission/%d", submissionID)
}

func (c *Client) EvaluationsByScoreRange(ctx context.Context, minScore, maxScore float64) ([]models.Evaluation, error) {
	return c.Evaluations().queryParams(ctx, "/by-score-range", url.Values{
		"minScore": {formatFloat(minScore)},
		"maxScore": {formatFloat(maxScore)},
	})
}

func (c *Client) EvaluationsByEvaluator(ctx context.Context, evaluatorID int64) ([]models.Evaluation, error) {
	return c.Evaluations().queryf(ctx, "/evaluator/%d", evaluatorID)
}

func (c *Client) EvaluationsByTeam(ctx context.Context, teamID int64) ([]models.Evaluation, error) {
	return c.Evaluations().queryf(ctx, "/team/%d", teamID)
}

// AutoEvaluate asks the backend to score a submission from its repository commit history.
func (c *Client) AutoEvaluate(ctx context.Context, submissionID, evaluatorID int64) (*models.Evaluation, error) {
	var out models.Evaluation
	path := fmt.Sprintf("%s/auto/%d/%d", c.Evaluations().Path(), submissionID, evaluatorID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FeedbacksByEvaluation(ctx context.Context, evaluationID int64) ([]models.Feedback, error) {
	return c.Feedbacks().queryf(ctx, "/by-evaluation/%d", evaluationID)
}

func (c *Client) FeedbacksByDateRange(ctx context.Context, from, to time.Time) ([]models.Feedback, error) {
	return c.Feedbacks().queryParams(ctx, "/by-date-range", dateRange(from, to))
}

func (c *Client) FeedbacksBySubmission(ctx context.Context, submissionID int64) ([]models.Feedback, error) {
	return c.Feedbacks().queryf(ctx, "/submission/%d", submissionID)
}

func (c *Client) FeedbacksByEvaluator(ctx context.Context, evaluatorID int64) ([]models.Feedback, error) {
	return c.Feedbacks().queryf(ctx, "/evaluator/%d", evaluatorID)
}

func (c *Client) FeedbacksByTeam(ctx context.Context, teamID int64) ([]models.Feedback, error) {
	return c.Feedbacks().queryf(ctx, "/team/%d", teamID)
}

func (c *Client) FeedbacksByAssignment(ctx context.Context, assignmentID int64) ([]models.Feedback, error) {
	return c.Feedbacks().queryf(ctx, "/assignment/%d", assignmentID)
}

func dateRange(from, to time.Time) url.Values {
	return url.Values{
		"startDate": {from.Format(dateParamLayout)},
		"endDate":   {to.Format(dateParamLayout)},
	}
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
