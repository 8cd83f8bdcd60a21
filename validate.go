package strand

import "fmt"

// Validate checks universal constraints on ChatRequest.
// Backend implementations may apply additional validation.
func (r ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("chat request needs at least one message: %w", ErrValidation)
	}
	last := r.Messages[len(r.Messages)-1]
	if last.Role() != RoleUser {
		return fmt.Errorf("last message must be from the user, got %s: %w", last.Role(), ErrValidation)
	}
	return nil
}

// Validate checks universal constraints on TableRequest.
func (r TableRequest) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("prompt is required: %w", ErrValidation)
	}
	if len(r.Columns) == 0 {
		return fmt.Errorf("at least one input column is required: %w", ErrValidation)
	}
	for i, rec := range r.Records {
		if len(rec) != len(r.Columns) {
			return fmt.Errorf("record %d has %d values, want %d: %w", i, len(rec), len(r.Columns), ErrValidation)
		}
	}
	return nil
}
