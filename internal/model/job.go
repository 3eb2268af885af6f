package model

import "time"

// JobState is a step of the strictly linear job lifecycle.
type JobState string

const (
	JobStateReceived        JobState = "received"
	JobStateMusicInProgress JobState = "music_in_progress"
	JobStateMusicDone       JobState = "music_done"
	JobStateMusicFailed     JobState = "music_failed"
	JobStateVideoInProgress JobState = "video_in_progress"
	JobStateVideoDone       JobState = "video_done"
	JobStateVideoFailed     JobState = "video_failed"
	JobStateResponded       JobState = "responded"
)

var jobTransitions = map[JobState][]JobState{
	JobStateReceived:        {JobStateMusicInProgress},
	JobStateMusicInProgress: {JobStateMusicDone, JobStateMusicFailed},
	JobStateMusicDone:       {JobStateVideoInProgress},
	JobStateVideoInProgress: {JobStateVideoDone, JobStateVideoFailed},
	JobStateVideoDone:       {JobStateResponded},
}

// CanTransition reports whether from -> to is a legal step.
func CanTransition(from, to JobState) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s JobState) Terminal() bool {
	return len(jobTransitions[s]) == 0
}

// Failed reports whether the job ended in a stage failure.
func (s JobState) Failed() bool {
	return s == JobStateMusicFailed || s == JobStateVideoFailed
}

// Progress is a rough percentage used for status polling and websocket updates.
func (s JobState) Progress() int {
	switch s {
	case JobStateReceived:
		return 0
	case JobStateMusicInProgress:
		return 10
	case JobStateMusicDone:
		return 50
	case JobStateVideoInProgress:
		return 60
	case JobStateVideoDone:
		return 95
	case JobStateResponded:
		return 100
	default:
		return 0
	}
}

// Job is the status record kept for every submitted job.
type Job struct {
	ID          string          `json:"id"`
	State       JobState        `json:"state"`
	Progress    int             `json:"progress"`
	Error       *string         `json:"error,omitempty"`
	VideoURL    string          `json:"videoUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	History     []JobTransition `json:"history,omitempty"`
}

// JobTransition records when a job entered a state.
type JobTransition struct {
	State JobState  `json:"state"`
	At    time.Time `json:"at"`
}

// CreateResponse is the synchronous /create result.
type CreateResponse struct {
	VideoURL string `json:"video_url"`
}

// JobSubmitResponse is returned when a job is queued.
type JobSubmitResponse struct {
	JobID     string    `json:"jobId"`
	State     JobState  `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobStatusResponse is returned by the status endpoint.
type JobStatusResponse struct {
	JobID       string          `json:"jobId"`
	State       JobState        `json:"state"`
	Progress    int             `json:"progress"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	History     []JobTransition `json:"history,omitempty"`
}

// JobResultResponse is returned once a queued job has responded.
type JobResultResponse struct {
	JobID    string `json:"jobId"`
	VideoURL string `json:"video_url"`
}
