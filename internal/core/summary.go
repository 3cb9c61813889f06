package core

import "fmt"

// DefaultErrorDisplayLimit caps the detailed error lines shown after an import.
const DefaultErrorDisplayLimit = 10

// ResultSummary is the bounded, display-ready form of an ImportResult.
type ResultSummary struct {
	SuccessCount int      `json:"successCount"`
	FailedCount  int      `json:"failedCount"`
	Lines        []string `json:"lines"`
	More         int      `json:"more"`
	Message      string   `json:"message"`
}

// Summary renders at most limit error lines as "Row N: message" and counts
// the rest in More. A limit <= 0 uses DefaultErrorDisplayLimit.
func (r ImportResult) Summary(limit int) ResultSummary {
	if limit <= 0 {
		limit = DefaultErrorDisplayLimit
	}

	s := ResultSummary{
		SuccessCount: r.SuccessCount,
		FailedCount:  r.FailedCount,
		Lines:        make([]string, 0, min(limit, len(r.Errors))),
	}

	for i, e := range r.Errors {
		if i == limit {
			s.More = len(r.Errors) - limit
			break
		}
		s.Lines = append(s.Lines, fmt.Sprintf("Row %d: %s", e.Line, e.Message))
	}

	switch {
	case r.FailedCount == 0:
		s.Message = fmt.Sprintf("Imported %d rows.", r.SuccessCount)
	case r.SuccessCount == 0:
		s.Message = fmt.Sprintf("No rows were imported. %d rows failed.", r.FailedCount)
	default:
		s.Message = fmt.Sprintf("Imported %d rows. %d rows failed.", r.SuccessCount, r.FailedCount)
	}
	if s.More > 0 {
		s.Lines = append(s.Lines, fmt.Sprintf("+%d more", s.More))
	}

	return s
}
