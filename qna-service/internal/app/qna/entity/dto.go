package entity

type AskQuestionRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"required,min=2,max=2000"`
}

type AnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=4000"`
}

// ErrorResponse error текст HTTP статуса, message пояснение для человека
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type QuestionListResponse struct {
	Questions []Question `json:"questions"`
	Total     int        `json:"total"`
}
