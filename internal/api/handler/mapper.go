package handler

import (
	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

func toProfileResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		DisplayName: p.Label(),
		Email:       p.Email,
		Role:        string(p.Role),
		CreatedAt:   p.CreatedAt,
	}
}

func toAttendanceRecordResponse(r domain.AttendanceRecord) attendanceRecordResponse {
	return attendanceRecordResponse{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		Kind:       string(r.Kind),
		OccurredAt: r.OccurredAt,
		Location:   r.Location,
	}
}

func toHistoryResponse(h ports.AttendanceHistory) attendanceHistoryResponse {
	records := make([]attendanceRecordResponse, 0, len(h.Records))
	for _, r := range h.Records {
		records = append(records, toAttendanceRecordResponse(r))
	}
	return attendanceHistoryResponse{NextAction: string(h.NextAction), Records: records}
}

func toReportResponse(r domain.Report) reportResponse {
	return reportResponse{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		Severity:   string(r.Severity),
		Body:       r.Body,
		Location:   r.Location,
		OccurredAt: r.OccurredAt,
	}
}

func toReportResponses(reports []domain.Report) []reportResponse {
	out := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r))
	}
	return out
}

func toAttributedResponses(reports []domain.AttributedReport) []attributedReportResponse {
	out := make([]attributedReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, attributedReportResponse{
			reportResponse: toReportResponse(r.Report),
			DisplayName:    r.DisplayName,
		})
	}
	return out
}
