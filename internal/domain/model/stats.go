package model

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	UsersByRole         map[string]int64 `json:"users_by_role"`
	EmployersByStatus   map[string]int64 `json:"employers_by_status"`
	JobsByStatus        map[string]int64 `json:"jobs_by_status"`
	Applications        int64            `json:"applications"`
	UnreadNotifications int64            `json:"unread_notifications"`
}

// EmployerDashboard is the employer's summary view.
type EmployerDashboard struct {
	VerificationStatus   VerificationStatus `json:"verification_status"`
	JobsByStatus         map[string]int64   `json:"jobs_by_status"`
	ApplicationsByStatus map[string]int64   `json:"applications_by_status"`
	UnreadNotifications  int64              `json:"unread_notifications"`
}

// CandidateDashboard is the candidate's summary view.
type CandidateDashboard struct {
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	SavedJobs            int64            `json:"saved_jobs"`
	UnreadNotifications  int64            `json:"unread_notifications"`
}

// StatusCount is one row of a GROUP BY status count.
type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

// CountsByStatus folds rows into a map.
func CountsByStatus(rows []StatusCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out
}
