package service

import "google.golang.org/genai"

// coreRequired lists the keys the core analysis must contain.
var coreRequired = []string{
	"summary",
	"strengths",
	"improvements",
	"bigTechAlignment",
	"skills",
	"suggestedRoles",
	"competitiveProgramming",
	"jobMatches",
}

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func num() *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber}
}

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func CoreReportSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"summary":      str(),
		"strengths":    arrayOf(str()),
		"improvements": arrayOf(str()),
		"bigTechAlignment": arrayOf(object(map[string]*genai.Schema{
			"company":        str(),
			"requirement":    str(),
			"gap":            str(),
			"recommendation": str(),
		})),
		"skills": object(map[string]*genai.Schema{
			"technical": arrayOf(str()),
			"soft":      arrayOf(str()),
		}),
		"suggestedRoles": arrayOf(str()),
		"competitiveProgramming": arrayOf(object(map[string]*genai.Schema{
			"platform":   str(),
			"rating":     str(),
			"rank":       str(),
			"percentile": str(),
		})),
		"jobMatches": arrayOf(object(map[string]*genai.Schema{
			"title":       str(),
			"company":     str(),
			"description": str(),
			"matchScore":  num(),
			"reason":      str(),
			"url":         str(),
		})),
	}, coreRequired...)
}

func GrowthSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"roadmap": arrayOf(object(map[string]*genai.Schema{
			"period": str(),
			"goal":   str(),
			"topics": arrayOf(str()),
		})),
		"playlist": arrayOf(object(map[string]*genai.Schema{
			"category":   str(),
			"question":   str(),
			"difficulty": {Type: genai.TypeString, Enum: []string{"Easy", "Medium", "Hard"}},
			"link":       str(),
			"reason":     str(),
		})),
	}, "roadmap", "playlist")
}

func InterviewSchema() *genai.Schema {
	return arrayOf(object(map[string]*genai.Schema{
		"question":   str(),
		"category":   {Type: genai.TypeString, Enum: []string{"Technical", "Behavioral", "System Design"}},
		"answerHint": str(),
		"difficulty": str(),
	}))
}

func MentorSchema() *genai.Schema {
	return arrayOf(object(map[string]*genai.Schema{
		"name":         str(),
		"role":         str(),
		"company":      str(),
		"link":         str(),
		"linkedinLink": str(),
		"expertise":    arrayOf(str()),
	}))
}

func PulseSchema() *genai.Schema {
	return arrayOf(object(map[string]*genai.Schema{
		"tool":      str(),
		"relevance": str(),
		"useCase":   str(),
		"link":      str(),
	}))
}

func StudioSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"coverLetter":       str(),
		"resumeSuggestions": arrayOf(str()),
	}, "coverLetter", "resumeSuggestions")
}
