package gateway

import (
	"fmt"

	"github.com/hirepulse/hirepulse-backend/internal/model"
)

// meaningfulAnswerLen is the length above which a degraded evaluation
// credits the answer.
const meaningfulAnswerLen = 30

const skippedIdealAnswer = "A standard answer would involve explaining the core mechanics, edge cases, " +
	"and best practices associated with the technology mentioned in the question."

func fallbackQuestions(role string, category model.Category) []model.Question {
	if category == model.CategoryAptitude {
		return []model.Question{
			{
				ID:            "f-a1",
				Text:          "A bat and a ball cost $1.10 in total. The bat costs $1.00 more than the ball. How much does the ball cost?",
				Category:      model.CategoryAptitude,
				Difficulty:    model.DifficultyIntermediate,
				IdealKeywords: []string{"5 cents", "0.05"},
			},
			{
				ID:            "f-a2",
				Text:          "If it takes 5 machines 5 minutes to make 5 widgets, how long would it take 100 machines to make 100 widgets?",
				Category:      model.CategoryAptitude,
				Difficulty:    model.DifficultyIntermediate,
				IdealKeywords: []string{"5 minutes"},
			},
			{
				ID: "f-a3",
				Text: "In a lake, there is a patch of lily pads. Every day, the patch doubles in size. " +
					"If it takes 48 days for the patch to cover the entire lake, how long would it take for the patch to cover half of the lake?",
				Category:      model.CategoryAptitude,
				Difficulty:    model.DifficultyIntermediate,
				IdealKeywords: []string{"47 days"},
			},
		}
	}
	return []model.Question{
		{
			ID:            "f1",
			Text:          fmt.Sprintf("Explain the core architecture of a modern %s application.", role),
			Category:      category,
			Difficulty:    model.DifficultyIntermediate,
			IdealKeywords: []string{"scalability", "modularity"},
		},
		{
			ID:            "f2",
			Text:          "How do you approach performance optimization in your projects?",
			Category:      category,
			Difficulty:    model.DifficultyIntermediate,
			IdealKeywords: []string{"profiling", "caching"},
		},
		{
			ID:            "f3",
			Text:          "Describe a time you had to deal with a significant technical debt. How did you handle it?",
			Category:      category,
			Difficulty:    model.DifficultyIntermediate,
			IdealKeywords: []string{"refactoring", "prioritization"},
		},
	}
}

func fallbackCodingChallenge() model.CodingChallenge {
	return model.CodingChallenge{
		ID:          "f-code-1",
		Title:       "Optimized Array Search",
		Difficulty:  "Medium",
		Points:      100,
		Description: "Write a function that finds the first unique character in a string and returns its index. If it doesn't exist, return -1.",
		StarterCode: model.StarterCode{
			Python: "def firstUniqChar(s: str) -> int:\n    # Write your code here\n    pass",
			Java:   "class Solution {\n    public int firstUniqChar(String s) {\n        // Write your code here\n        return -1;\n    }\n}",
			Cpp:    "class Solution {\npublic:\n    int firstUniqChar(string s) {\n        // Write your code here\n        return -1;\n    }\n};",
		},
	}
}

func fallbackEvaluation(answer string) model.Evaluation {
	score := 0
	if len(answer) > meaningfulAnswerLen {
		score = 75
	}
	return model.Evaluation{
		Score:       score,
		Relevance:   70,
		Correctness: 70,
		Grammar:     100,
		Sentiment:   "Neutral",
		Feedback: "Our AI evaluation engine is currently experiencing high traffic. " +
			"We've provided a preliminary score based on your response length and engagement. Your progress has been saved.",
		Strengths:   []string{"Persistence in completing the task during peak load."},
		Weaknesses:  []string{"AI analysis currently throttled."},
		IdealAnswer: skippedIdealAnswer,
	}
}

func fallbackCodeReview() model.CodeReview {
	return model.CodeReview{
		Status:          "System Busy",
		TimeComplexity:  "N/A",
		SpaceComplexity: "N/A",
		Score:           80,
		OptimalSolution: "// Automated complexity analysis is currently offline.\n// Focus on O(n) time and O(1) space where possible.",
		Feedback: "Your code was submitted, but deep complexity analysis is temporarily unavailable due to high demand. " +
			"Please check the optimal solution below.",
	}
}

func fallbackResumeAnalysis(targetRole string) model.ResumeAnalysis {
	return model.ResumeAnalysis{
		Score:                 50,
		Summary:               "We are currently experiencing high API demand. This is a simplified analysis.",
		SuggestedImprovements: []string{"Try uploading again in a few minutes for a deep AI audit."},
		MatchingScore:         50,
		SkillGaps:             []string{"Analysis pending"},
		SuggestedRoles:        []string{targetRole, "Software Engineer", "Tech Consultant"},
	}
}
