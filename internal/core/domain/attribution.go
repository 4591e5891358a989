package domain

// AttributedReport pairs a report with a human-readable reporter label.
type AttributedReport struct {
	Report      Report `json:"report"`
	DisplayName string `json:"display_name"`
}

// AttributeReports joins reports with profiles keyed by id. Reports whose
// owner has no profile are labelled with the raw owner id.
func AttributeReports(reports []Report, profiles map[string]*Profile) []AttributedReport {
	out := make([]AttributedReport, len(reports))
	for i, r := range reports {
		label := r.OwnerID
		if p, ok := profiles[r.OwnerID]; ok && p != nil {
			label = p.Label()
		}
		out[i] = AttributedReport{Report: r, DisplayName: label}
	}
	return out
}

// OwnerIDs returns the distinct owner ids of reports in first-seen order.
func OwnerIDs(reports []Report) []string {
	seen := make(map[string]struct{}, len(reports))
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		if _, ok := seen[r.OwnerID]; ok {
			continue
		}
		seen[r.OwnerID] = struct{}{}
		ids = append(ids, r.OwnerID)
	}
	return ids
}
