package workflow

import "fmt"

// Validate checks universal constraints on Request.
func (r Request) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("prompt must not be empty: %w", ErrValidation)
	}
	for i, m := range r.History {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("history %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks that an item has a title and a known status.
func (it Item) Validate() error {
	if it.Title == "" {
		return fmt.Errorf("item %d: title must not be empty: %w", it.ID, ErrValidation)
	}
	if !it.Status.Valid() {
		return fmt.Errorf("item %d: unknown status %q: %w", it.ID, it.Status, ErrValidation)
	}
	switch it.ImageGender {
	case "", GenderMale, GenderFemale:
	default:
		return fmt.Errorf("item %d: unknown gender %q: %w", it.ID, it.ImageGender, ErrValidation)
	}
	return nil
}

// Validate checks that an agent has a name, a prompt, and a known gender.
func (a Agent) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("agent name must not be empty: %w", ErrValidation)
	}
	if a.Prompt == "" {
		return fmt.Errorf("agent %s: prompt must not be empty: %w", a.Name, ErrValidation)
	}
	switch a.Gender {
	case "", GenderMale, GenderFemale:
	default:
		return fmt.Errorf("agent %s: unknown gender %q: %w", a.Name, a.Gender, ErrValidation)
	}
	return nil
}
