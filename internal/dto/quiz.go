package dto

// QuizQuestionResponse is a question without its correct option
type QuizQuestionResponse struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizResponse is the quiz of a lesson
type QuizResponse struct {
	LessonID    int64                  `json:"lesson_id"`
	LessonTitle string                 `json:"lesson_title"`
	Questions   []QuizQuestionResponse `json:"questions"`
}

// SubmitQuizRequest maps question IDs (decimal strings) to the chosen option
// @Description Request body for grading a quiz
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

// GradeResponse is the outcome of a graded submission
type GradeResponse struct {
	LessonID int64 `json:"lesson_id"`
	Score    int   `json:"score"`
	Total    int   `json:"total"`
}

// HealthResponse reports dependency status
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
