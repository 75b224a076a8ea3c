package handlers

// TranscribeResponse is the aggregate returned for one successful upload.
type TranscribeResponse struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename"`
	Transcription string `json:"transcription"`
	Title         string `json:"title"`
	Markdown      string `json:"markdown"`
}

// ErrorResponse carries a human-readable failure detail.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Transcription failed"`
}

// RootResponse is the liveness payload.
type RootResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"VoiceNote Transcriber API"`
}

// HealthResponse reports downstream reachability.
type HealthResponse struct {
	API        string `json:"api" example:"healthy"`
	Whisper    string `json:"whisper" example:"healthy"`
	Structurer string `json:"structurer" example:"unreachable"`
}
