package models

import (
	"encoding/json"
	"strings"
)

type User struct {
	ID        int64    `json:"id"`
	CarnetID  string   `json:"carnetId,omitempty"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	RoleID    int64    `json:"roleId,omitempty"`
	RoleName  string   `json:"roleName,omitempty"`
	TeamIDs   []int64  `json:"teamIds,omitempty"`
	TeamNames []string `json:"teamNames,omitempty"`
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	UserIDs   []int64  `json:"userIds,omitempty"`
	UserNames []string `json:"userNames,omitempty"`
}

type Class struct {
	ID                      int64       `json:"id"`
	Name                    string      `json:"name"`
	Description             string      `json:"description,omitempty"`
	Semester                string      `json:"semester,omitempty"`
	ProfessorID             int64       `json:"professorId,omitempty"`
	ProfessorName           string      `json:"professorName,omitempty"`
	LaboratoryProfessorID   int64       `json:"laboratoryProfessorId,omitempty"`
	LaboratoryProfessorName string      `json:"laboratoryProfessorName,omitempty"`
	CreatedAt               BackendTime `json:"createdAt"`
	TeamIDs                 []int64     `json:"teamIds,omitempty"`
	TeamNames               []string    `json:"teamNames,omitempty"`
}

type Assignment struct {
	ID          int64       `json:"id"`
	ClassID     int64       `json:"classId,omitempty"`
	ClassName   string      `json:"className,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	StartDate   BackendTime `json:"startDate"`
	DueDate     BackendTime `json:"dueDate"`
}

type Submission struct {
	ID              int64       `json:"id"`
	AssignmentID    int64       `json:"assignmentId"`
	AssignmentTitle string      `json:"assignmentTitle,omitempty"`
	TeamID          int64       `json:"teamId"`
	TeamName        string      `json:"teamName,omitempty"`
	ClassID         int64       `json:"classId,omitempty"`
	ClassName       string      `json:"className,omitempty"`
	FileURL         string      `json:"fileUrl"`
	SubmittedAt     BackendTime `json:"submittedAt"`
}

const (
	EvaluationManual    = "MANUAL"
	EvaluationAutomatic = "AUTOMATIC"
)

type Evaluation struct {
	ID              int64       `json:"id"`
	SubmissionID    int64       `json:"submissionId"`
	EvaluatorID     int64       `json:"evaluatorId"`
	EvaluatorName   string      `json:"evaluatorName,omitempty"`
	EvaluationType  string      `json:"evaluationType,omitempty"`
	Score           float64     `json:"score"`
	Comments        string      `json:"comments,omitempty"`
	CriteriaJSON    string      `json:"criteriaJson,omitempty"`
	CreatedAt       BackendTime `json:"createdAt"`
	EvaluationDate  BackendTime `json:"evaluationDate"`
	TeamName        string      `json:"teamName,omitempty"`
	AssignmentTitle string      `json:"assignmentTitle,omitempty"`
	ClassID         int64       `json:"classId,omitempty"`
	ClassName       string      `json:"className,omitempty"`
}

// Criteria decodes criteriaJson. A blank or malformed payload yields nil.
func (e Evaluation) Criteria() map[string]any {
	if strings.TrimSpace(e.CriteriaJSON) == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(e.CriteriaJSON), &m); err != nil {
		return nil
	}
	return m
}

// CommitAnalysis returns the commit report attached to automatic evaluations.
func (e Evaluation) CommitAnalysis() (*CommitAnalysis, bool) {
	if strings.TrimSpace(e.CriteriaJSON) == "" {
		return nil, false
	}
	var ca CommitAnalysis
	if err := json.Unmarshal([]byte(e.CriteriaJSON), &ca); err != nil {
		return nil, false
	}
	if ca.Commits == nil && ca.EvaluationMethod == "" {
		return nil, false
	}
	return &ca, true
}

// Date is the evaluation date, or the creation time when the former is missing.
func (e Evaluation) Date() BackendTime {
	if e.EvaluationDate.Valid() {
		return e.EvaluationDate
	}
	return e.CreatedAt
}

// Commit keeps Date raw so an unparseable date can be told apart from a missing one.
type Commit struct {
	Message string `json:"message"`
	Date    any    `json:"date"`
	OnTime  bool   `json:"onTime"`
	SHA     string `json:"sha"`
}

type CommitAnalysis struct {
	Commits          []Commit `json:"commits"`
	LateDays         int      `json:"lateDays"`
	TotalPenalty     float64  `json:"totalPenalty"`
	IsLate           bool     `json:"isLate"`
	EvaluationMethod string   `json:"evaluationMethod"`
}

var FeedbackTypes = []string{"POSITIVE", "SUGGESTION", "QUESTION", "NEGATIVE", "GENERAL"}

type Feedback struct {
	ID            int64       `json:"id"`
	EvaluationID  int64       `json:"evaluationId"`
	FeedbackType  string      `json:"feedbackType"`
	Content       string      `json:"content"`
	Strengths     string      `json:"strengths,omitempty"`
	Improvements  string      `json:"improvements,omitempty"`
	Comments      string      `json:"comments,omitempty"`
	FeedbackDate  BackendTime `json:"feedbackDate"`
	EvaluatorName string      `json:"evaluatorName,omitempty"`
	TeamName      string      `json:"teamName,omitempty"`
}

type Schedule struct {
	ID           int64       `json:"id"`
	AssignmentID int64       `json:"assignmentId"`
	DayOfWeek    string      `json:"dayOfWeek,omitempty"`
	StartTime    BackendTime `json:"startTime"`
	EndTime      BackendTime `json:"endTime"`
}

type ImportStats struct {
	RolesCreated   int `json:"rolesCreated"`
	UsersCreated   int `json:"usersCreated"`
	UsersUpdated   int `json:"usersUpdated"`
	ClassesCreated int `json:"classesCreated"`
	ClassesUpdated int `json:"classesUpdated"`
	TotalProcessed int `json:"totalProcessed"`
}

type ImportReport struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Stats   ImportStats `json:"stats"`
	Errors  []string    `json:"errors"`
}

func (u User) EntityID() int64       { return u.ID }
func (r Role) EntityID() int64       { return r.ID }
func (t Team) EntityID() int64       { return t.ID }
func (c Class) EntityID() int64      { return c.ID }
func (a Assignment) EntityID() int64 { return a.ID }
func (s Submission) EntityID() int64 { return s.ID }
func (e Evaluation) EntityID() int64 { return e.ID }
func (f Feedback) EntityID() int64   { return f.ID }

func (u User) DisplayName() string       { return u.Name }
func (r Role) DisplayName() string       { return r.Name }
func (t Team) DisplayName() string       { return t.Name }
func (c Class) DisplayName() string      { return c.Name }
func (a Assignment) DisplayName() string { return a.Title }

func (s Submission) DisplayName() string {
	return OrDefault(s.AssignmentTitle, "Sin asignación") + " - " + OrDefault(s.TeamName, "Sin equipo")
}

func (e Evaluation) DisplayName() string {
	if e.SubmissionID == 0 && e.AssignmentTitle == "" && e.TeamName == "" {
		return "Sin entrega"
	}
	return OrDefault(e.AssignmentTitle, "Sin asignación") + " - " + OrDefault(e.TeamName, "Sin equipo")
}

func (f Feedback) DisplayName() string {
	return TruncateText(f.Content, 50)
}
