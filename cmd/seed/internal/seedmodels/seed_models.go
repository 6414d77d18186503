package seedmodels

// SeedQuiz defines the structure for a question in the YAML seed file.
type SeedQuiz struct {
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectOption string   `yaml:"correct_option"`
}

// SeedLesson defines the structure for a lesson in the YAML seed file.
type SeedLesson struct {
	Title    string     `yaml:"title"`
	Category string     `yaml:"category"`
	Content  string     `yaml:"content"`
	AudioURL string     `yaml:"audio_url"`
	VideoURL string     `yaml:"video_url"`
	Quizzes  []SeedQuiz `yaml:"quizzes"`
}

// SeedFile is the top-level document.
type SeedFile struct {
	Lessons []SeedLesson `yaml:"lessons"`
}
