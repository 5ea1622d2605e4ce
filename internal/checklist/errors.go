package checklist

import "errors"

// Failure taxonomy for a generation attempt. Only the fallback controller in
// pipeline.go converts these into terminal outcomes; no inner component lets
// one escape past its own boundary.
var (
	// ErrNoRuleSet: nothing to offer for this country/visa pair. Not a defect.
	ErrNoRuleSet = errors.New("no active rule set")

	// ErrEmptyBaseChecklist: a rule set exists but produced no documents.
	// Always a configuration defect, logged as an error.
	ErrEmptyBaseChecklist = errors.New("base checklist empty")

	// ErrModelCall: the generative model transport failed outright.
	ErrModelCall = errors.New("model call failed")

	// ErrExtraction: no usable JSON could be recovered from the model output.
	ErrExtraction = errors.New("json extraction failed")

	// ErrSchemaHard: the recovered JSON is structurally unusable (missing or
	// empty checklist array, malformed top level). Soft schema problems are
	// repaired in place and never surface as errors.
	ErrSchemaHard = errors.New("schema validation failed")
)
