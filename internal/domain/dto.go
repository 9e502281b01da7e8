package domain

// GenerateRequest represents the request body for starting a new generation task.
type GenerateRequest struct {
	SceneDescription string `json:"scene_description" validate:"required,min=1,max=2000"`
}

// GenerateResponse is returned when a task has been accepted.
type GenerateResponse struct {
	Message string `json:"message"`
	TaskID  int64  `json:"task_id"`
}

// CredentialsStatus reports which credentials are configured without
// ever exposing their values.
type CredentialsStatus struct {
	OpenAI              bool `json:"openai"`
	HuggingFace         bool `json:"huggingface"`
	RunwayML            bool `json:"runwayml"`
	GoogleSpreadsheetID bool `json:"google_spreadsheet_id"`
	GmailRecipient      bool `json:"gmail_recipient"`
	GoogleAPIToken      bool `json:"google_api_token"`
}
