package protocol

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// summarySchema constrains the evaluation block before unmarshalling.
// Anything that fails validation degrades to a nil summary rather than
// surfacing an error mid-conversation.
const summarySchema = `{
	"type": "object",
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 100},
		"title": {"type": "string"},
		"feedback": {"type": "string"},
		"tips": {"type": "array", "items": {"type": "string"}},
		"remedialTutor": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"role": {"type": "string"},
				"description": {"type": "string"},
				"expertise": {"type": "array", "items": {"type": "string"}}
			}
		}
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getSummarySchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if compileErr = json.Unmarshal([]byte(summarySchema), &def); compileErr != nil {
			return
		}
		c := jsonschema.NewCompiler()
		if compileErr = c.AddResource("schema://stage-summary.json", def); compileErr != nil {
			return
		}
		compiledSchema, compileErr = c.Compile("schema://stage-summary.json")
	})
	return compiledSchema, compileErr
}

// wireSummary mirrors the JSON shape the model is instructed to emit.
// Score is a pointer so an absent score is distinguishable from zero.
type wireSummary struct {
	Score         *float64       `json:"score"`
	Title         string         `json:"title"`
	Feedback      string         `json:"feedback"`
	Tips          []string       `json:"tips"`
	RemedialTutor *RemedialTutor `json:"remedialTutor"`
}

// parseSummary attempts a structured parse of the summary payload.
// Returns nil on any failure.
func parseSummary(payload string) *Summary {
	payload = stripCodeFence(strings.TrimSpace(payload))
	if payload == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil
	}

	schema, err := getSummarySchema()
	if err != nil {
		return nil
	}
	if err := schema.Validate(parsed); err != nil {
		return nil
	}

	var wire wireSummary
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil
	}

	s := &Summary{
		Title:         wire.Title,
		Feedback:      wire.Feedback,
		Tips:          wire.Tips,
		RemedialTutor: wire.RemedialTutor,
	}
	if wire.Score != nil {
		s.Score = int(*wire.Score)
	}
	return s
}

// stripCodeFence removes a surrounding markdown code fence, which models
// often wrap around JSON despite instructions.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
