package analysis

import "TrattoriaGolang/pkg/response"

var (
	ErrExtractionTransport = response.NewError(502, "extraction service unreachable")
	ErrExtractionFormat    = response.NewError(502, "extraction service returned an unusable payload")
	ErrAnalysisNotFound    = response.NewError(404, "analysis not found")
	ErrSampleNotFound      = response.NewError(404, "sample conversation not found")
	ErrEmptyTranscript     = response.NewError(400, "transcript is empty")
	ErrMissingTarget       = response.NewError(400, "either conversation_id or sample_id is required")
)
