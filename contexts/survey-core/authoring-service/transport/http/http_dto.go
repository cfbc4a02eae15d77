package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FormInputRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

type FormStateResponse struct {
	Stage     string `json:"stage,omitempty"`
	Committed bool   `json:"committed"`
	Cancelled bool   `json:"cancelled"`
	SurveyID  string `json:"survey_id,omitempty"`
}
