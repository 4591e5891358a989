package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Identity ---

type profileResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type landingResponse struct {
	Role    string          `json:"role"`
	Route   string          `json:"route"`
	Created bool            `json:"created"`
	Profile profileResponse `json:"profile"`
}

// --- Attendance ---

type recordAttendanceRequest struct {
	Kind     string `json:"kind"     validate:"required,oneof=in out"`
	Location string `json:"location" validate:"required,max=200"`
}

type attendanceRecordResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Location   string    `json:"location"`
}

type attendanceHistoryResponse struct {
	NextAction string                     `json:"next_action"`
	Records    []attendanceRecordResponse `json:"records"`
}

type recordAttendanceResponse struct {
	Record  attendanceRecordResponse  `json:"record"`
	History attendanceHistoryResponse `json:"history"`
}

// --- Reports ---

type submitReportRequest struct {
	Severity   string     `json:"severity"`
	Body       string     `json:"body"        validate:"required,max=2000"`
	Location   string     `json:"location"    validate:"required,max=200"`
	OccurredAt *time.Time `json:"occurred_at"`
}

type reportResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Severity   string    `json:"severity"`
	Body       string    `json:"body"`
	Location   string    `json:"location"`
	OccurredAt time.Time `json:"occurred_at"`
}

type submitReportResponse struct {
	Report   reportResponse `json:"report"`
	Replayed bool           `json:"replayed"`
}

type attributedReportResponse struct {
	reportResponse
	DisplayName string `json:"display_name"`
}

type reportWindowResponse struct {
	Start   time.Time                  `json:"start"`
	End     time.Time                  `json:"end"`
	Reports []attributedReportResponse `json:"reports"`
}

// --- Health ---

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}
