package models

// Тела запросов на создание и обновление. Теги validate проверяются до обращения к бэкенду.

type UserRequest struct {
	CarnetID string  `json:"carnetId,omitempty"`
	Name     string  `json:"name" validate:"required,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	RoleID   int64   `json:"roleId" validate:"required,gt=0"`
	TeamIDs  []int64 `json:"teamIds"`
}

type RoleRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type TeamRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	UserIDs []int64 `json:"userIds"`
}

type ClassRequest struct {
	Name                  string  `json:"name" validate:"required,max=255"`
	Description           string  `json:"description,omitempty"`
	Semester              string  `json:"semester,omitempty"`
	ProfessorID           int64   `json:"professorId" validate:"required,gt=0"`
	LaboratoryProfessorID *int64  `json:"laboratoryProfessorId,omitempty"`
	TeamIDs               []int64 `json:"teamIds"`
}

type AssignmentRequest struct {
	ClassID     int64       `json:"classId" validate:"required,gt=0"`
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"required"`
	StartDate   BackendTime `json:"startDate"`
	DueDate     BackendTime `json:"dueDate" validate:"required"`
}

type SubmissionRequest struct {
	AssignmentID int64       `json:"assignmentId" validate:"required,gt=0"`
	TeamID       int64       `json:"teamId" validate:"required,gt=0"`
	FileURL      string      `json:"fileUrl" validate:"required,url"`
	SubmittedAt  BackendTime `json:"submittedAt"`
}

type EvaluationRequest struct {
	SubmissionID   int64       `json:"submissionId" validate:"required,gt=0"`
	EvaluatorID    int64       `json:"evaluatorId" validate:"required,gt=0"`
	Score          *float64    `json:"score" validate:"required,gte=0,lte=5,onedecimal"`
	EvaluationType string      `json:"evaluationType" validate:"required,oneof=MANUAL AUTOMATIC"`
	Comments       *string     `json:"comments"`
	CriteriaJSON   string      `json:"criteriaJson,omitempty" validate:"omitempty,json"`
	EvaluationDate BackendTime `json:"evaluationDate" validate:"required"`
}

type FeedbackRequest struct {
	EvaluationID int64       `json:"evaluationId" validate:"required,gt=0"`
	FeedbackType string      `json:"feedbackType" validate:"required,oneof=POSITIVE SUGGESTION QUESTION NEGATIVE GENERAL"`
	Content      string      `json:"content" validate:"required"`
	Strengths    *string     `json:"strengths"`
	Improvements *string     `json:"improvements"`
	Comments     *string     `json:"comments"`
	FeedbackDate BackendTime `json:"feedbackDate" validate:"required"`
}
