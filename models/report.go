package models

import "time"

// Formatted holds human readable renderings shown on the dashboard.
type Formatted struct {
	Total   string `json:"total"`
	Count   string `json:"count"`
	Average string `json:"average,omitempty"`
}

type TotalReport struct {
	Total     int64     `json:"total"`
	Count     int64     `json:"count"`
	Formatted Formatted `json:"formatted"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type HistoryPage struct {
	Rows       []Donation `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type DailyStats struct {
	Date      string    `json:"date"`
	Total     int64     `json:"totalToday"`
	Count     int64     `json:"countToday"`
	Formatted Formatted `json:"formatted"`
}

// Stats are the figures computed over one time window.
type Stats struct {
	Total   int64 `json:"total"`
	Count   int64 `json:"count"`
	Average int64 `json:"average"`
}

type PeriodStats struct {
	Period     string    `json:"period"`
	PeriodName string    `json:"periodName"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Stats      Stats     `json:"stats"`
	Formatted  Formatted `json:"formatted"`
}

type TopDonations struct {
	Rows  []Donation `json:"data"`
	Limit int        `json:"limit"`
}

type ResetResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
