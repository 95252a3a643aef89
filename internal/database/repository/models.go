package repository

import "time"

// Article represents an articles row with its ordered transfer keys.
type Article struct {
	ID           string
	Content      string
	TransferKeys []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DayCount is the number of articles created on one UTC day (YYYY-MM-DD).
type DayCount struct {
	Day   string
	Count int
}
