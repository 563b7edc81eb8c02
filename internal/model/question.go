package model

// Question is one generated interview prompt. Lives only inside a session.
type Question struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Category      Category   `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	IdealKeywords []string   `json:"ideal_keywords"`
}

// Evaluation is the AI assessment of one answer. Numeric fields are in [0,100].
type Evaluation struct {
	Score       int      `json:"score"`
	Relevance   int      `json:"relevance"`
	Correctness int      `json:"correctness"`
	Grammar     int      `json:"grammar"`
	Sentiment   string   `json:"sentiment"`
	Feedback    string   `json:"feedback"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	IdealAnswer string   `json:"ideal_answer"`
}

// SkippedAnswer marks an answer record produced by passing a question.
const SkippedAnswer = "[SKIPPED]"

// AnswerRecord is the result of answering or passing one question.
type AnswerRecord struct {
	QuestionID   string     `json:"question_id"`
	QuestionText string     `json:"question_text"`
	AnswerText   string     `json:"answer_text"`
	Score        int        `json:"score"`
	Feedback     string     `json:"feedback"`
	Evaluation   Evaluation `json:"evaluation"`
}
