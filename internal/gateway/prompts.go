package gateway

import (
	"fmt"
	"strings"

	"github.com/hirepulse/hirepulse-backend/internal/model"
)

// QuestionsPerSession is how many questions are requested from the provider.
const QuestionsPerSession = 5

func questionsPrompt(role string, category model.Category, difficulty model.Difficulty) string {
	var instruction string
	switch category {
	case model.CategoryAptitude:
		instruction = fmt.Sprintf("Generate %d aptitude and logical reasoning questions for a candidate applying for a %s position. "+
			"Focus on quantitative ability, logical reasoning, and data interpretation. "+
			"Ensure the questions are challenging but fair for a %s level.",
			QuestionsPerSession, role, strings.ToLower(string(difficulty)))
	case model.CategorySystemDesign:
		instruction = fmt.Sprintf("Generate %d system design questions for a %s level %s. "+
			"Focus on scalability, distributed systems, and trade-offs.",
			QuestionsPerSession, strings.ToLower(string(difficulty)), role)
	default:
		instruction = fmt.Sprintf("Generate %d technical interview questions for a %s level %s. Category: %s. "+
			"Ensure questions are technical and role-specific.",
			QuestionsPerSession, strings.ToLower(string(difficulty)), role, category)
	}
	return instruction + " Difficulty must be one of: BEGINNER, INTERMEDIATE, EXPERT. " +
		"Output a JSON array of objects with fields: text, difficulty, idealKeywords."
}

func codingChallengePrompt(role string) string {
	return fmt.Sprintf("Generate a coding challenge for a %s. Difficulty must be one of: Easy, Medium, Hard. "+
		"Include title, difficulty, description, and starter code for python, java and cpp.", role)
}

func evaluationPrompt(question, answer string, category model.Category) string {
	var b strings.Builder
	b.WriteString("Evaluate the candidate's interview answer. Score every numeric field from 0 to 100.\n")
	fmt.Fprintf(&b, "Question: %q\n", question)
	fmt.Fprintf(&b, "Candidate Answer: %q\n", answer)
	fmt.Fprintf(&b, "Category: %s.\n", category)
	if category == model.CategoryAptitude {
		b.WriteString("Evaluate for mathematical accuracy and logical flow.\n")
	}
	return b.String()
}

func idealAnswerPrompt(question string, category model.Category) string {
	return fmt.Sprintf("The candidate skipped this question. Provide a concise ideal answer.\nQuestion: %q\nCategory: %s.",
		question, category)
}

func codeReviewPrompt(problem, language, code string) string {
	return fmt.Sprintf("Review code for problem: %q. Language: %s. Code:\n%s\n"+
		"Do not execute the code. Report status (Accepted, Wrong Answer or Needs Improvement), "+
		"time and space complexity, a 0-100 score, feedback and an optimal solution.",
		problem, language, code)
}

func resumePrompt(resumeText, targetRole string) string {
	return fmt.Sprintf("Analyze the following resume for the target role %q. "+
		"Score overall quality and role match from 0 to 100, list improvements, skill gaps and suitable roles.\n\n%s",
		targetRole, resumeText)
}
