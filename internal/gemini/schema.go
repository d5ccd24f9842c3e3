package gemini

import (
	"google.golang.org/genai"
)

func ptr[T any](v T) *T {
	return &v
}

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func integer() *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger}
}

func enum(values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Enum: values}
}

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

var roadmapSchema = arrayOf(object(map[string]*genai.Schema{
	"phaseName": str(),
	"items": arrayOf(object(map[string]*genai.Schema{
		"id":             str(),
		"title":          str(),
		"description":    str(),
		"type":           enum("skill", "project", "internship", "certificate"),
		"duration":       str(),
		"status":         enum("pending"),
		"link":           {Type: genai.TypeString, Nullable: ptr(true)},
		"importance":     enum("high", "medium", "low"),
		"isAIAdaptation": {Type: genai.TypeBoolean, Nullable: ptr(true)},
	}, "id", "title", "description", "type", "duration", "status", "importance")),
}, "phaseName", "items"))

var careerOptionsSchema = arrayOf(object(map[string]*genai.Schema{
	"id":          str(),
	"title":       str(),
	"description": str(),
	"fitScore":    integer(),
	"reason":      str(),
}, "id", "title", "description", "fitScore", "reason"))

var assessmentSchema = object(map[string]*genai.Schema{
	"questions": arrayOf(object(map[string]*genai.Schema{
		"text":         str(),
		"options":      arrayOf(str()),
		"correctIndex": integer(),
	}, "text", "options", "correctIndex")),
}, "questions")

var dailyChallengeSchema = object(map[string]*genai.Schema{
	"question":      str(),
	"options":       arrayOf(str()),
	"correctAnswer": integer(),
	"explanation":   str(),
	"difficulty":    enum("easy", "medium", "hard"),
}, "question", "options", "correctAnswer", "explanation", "difficulty")

var simulationSchema = object(map[string]*genai.Schema{
	"title":    str(),
	"scenario": str(),
	"role":     str(),
	"options": arrayOf(object(map[string]*genai.Schema{
		"text":    str(),
		"outcome": str(),
		"score":   integer(),
	}, "text", "outcome", "score")),
}, "title", "scenario", "role", "options")

var triviaSchema = object(map[string]*genai.Schema{
	"question":     str(),
	"options":      arrayOf(str()),
	"correctIndex": integer(),
}, "question", "options", "correctIndex")
