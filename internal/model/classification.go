package model

import "fmt"

// ClassificationResult is the classifier's verdict for one piece of
// transaction text.
type ClassificationResult struct {
	Category   string
	Confidence float64
}

// Validate checks that the result is internally consistent.
func (r *ClassificationResult) Validate() error {
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", r.Confidence)
	}
	return nil
}
