package scorer

import "time"

type ScoreRequest struct {
	Text       string    `json:"text"`
	Sender     string    `json:"sender"`
	AppName    string    `json:"app_name"`
	ReceivedAt time.Time `json:"received_at"`
}

type ScoreResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
