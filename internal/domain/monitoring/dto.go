package monitoring

// LiveEntry is one roster member's point-in-time status for today.
type LiveEntry struct {
	UserID         string   `json:"user_id"`
	UserName       string   `json:"user_name"`
	Department     *string  `json:"department,omitempty"`
	BranchID       *string  `json:"branch_id,omitempty"`
	Status         string   `json:"status"` // not_started, clocked_in, clocked_out
	ClockInTime    *string  `json:"clock_in_time,omitempty"`
	ClockOutTime   *string  `json:"clock_out_time,omitempty"`
	IsWithinOffice bool     `json:"is_within_office"`
	TotalHours     float64  `json:"total_hours"`
	OnTime         *bool    `json:"on_time,omitempty"` // nil when work hours are unknown
}

type LiveStats struct {
	TotalEmployees   int     `json:"total_employees"`
	CurrentlyWorking int     `json:"currently_working"`
	OnTimeToday      int     `json:"on_time_today"`
	LateToday        int     `json:"late_today"`
	AbsentToday      int     `json:"absent_today"`
	RemoteWorking    int     `json:"remote_working"`
	OfficeWorking    int     `json:"office_working"`
	AverageHours     float64 `json:"average_hours"`
}

type LiveSnapshotResponse struct {
	Date        string      `json:"date"`
	Stats       LiveStats   `json:"stats"`
	Attendances []LiveEntry `json:"attendances"`
}
