package gateway

import "cloud.google.com/go/vertexai/genai"

func stringSchema() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
func numberSchema() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }

func stringListSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

var questionListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text":          stringSchema(),
			"difficulty":    stringSchema(),
			"idealKeywords": stringListSchema(),
		},
		Required: []string{"text", "difficulty", "idealKeywords"},
	},
}

var codingChallengeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       stringSchema(),
		"difficulty":  stringSchema(),
		"description": stringSchema(),
		"starterCode": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"python": stringSchema(),
				"java":   stringSchema(),
				"cpp":    stringSchema(),
			},
			Required: []string{"python", "java", "cpp"},
		},
	},
	Required: []string{"title", "difficulty", "description", "starterCode"},
}

var evaluationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":       numberSchema(),
		"relevance":   numberSchema(),
		"correctness": numberSchema(),
		"grammar":     numberSchema(),
		"sentiment":   stringSchema(),
		"feedback":    stringSchema(),
		"strengths":   stringListSchema(),
		"weaknesses":  stringListSchema(),
		"idealAnswer": stringSchema(),
	},
	Required: []string{"score", "relevance", "correctness", "grammar", "sentiment", "feedback", "strengths", "weaknesses", "idealAnswer"},
}

var codeReviewSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"status":          stringSchema(),
		"timeComplexity":  stringSchema(),
		"spaceComplexity": stringSchema(),
		"feedback":        stringSchema(),
		"score":           numberSchema(),
		"optimalSolution": stringSchema(),
	},
	Required: []string{"status", "timeComplexity", "spaceComplexity", "feedback", "score", "optimalSolution"},
}

var resumeAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":                 numberSchema(),
		"summary":               stringSchema(),
		"suggestedImprovements": stringListSchema(),
		"matchingScore":         numberSchema(),
		"skillGaps":             stringListSchema(),
		"suggestedRoles":        stringListSchema(),
	},
	Required: []string{"score", "summary", "suggestedImprovements", "matchingScore", "skillGaps", "suggestedRoles"},
}

var idealAnswerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"idealAnswer": stringSchema(),
	},
	Required: []string{"idealAnswer"},
}
