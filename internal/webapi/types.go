package webapi

import "time"

type runRecordResponse struct {
	RunID      string    `json:"run_id"`
	Units      []string  `json:"units"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type runsResponse struct {
	Runs []runRecordResponse `json:"runs"`
}

type reportFileResponse struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type reportsResponse struct {
	Reports []reportFileResponse `json:"reports"`
}

type errorResponse struct {
	Error string `json:"error"`
}
