package calendar

import "fmt"

// MalformedTimeError is returned when a clock string is not in "3:04 PM" form.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q", e.Value)
}

// MissingFieldError is returned when a required element is absent from the markup.
type MissingFieldError struct {
	Field    string
	Selector string
}

func (e *MissingFieldError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("missing %s", e.Field)
	}
	return fmt.Sprintf("missing %s (%s)", e.Field, e.Selector)
}

// MissingSectionError is returned when a day section is not present in the document.
type MissingSectionError struct {
	Day string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing section for %s", e.Day)
}

// DescriptionCardinalityError is returned when a session's information block
// does not hold exactly one text paragraph.
type DescriptionCardinalityError struct {
	Title string
	Count int
}

func (e *DescriptionCardinalityError) Error() string {
	return fmt.Sprintf("session %q: expected exactly one description paragraph, found %d", e.Title, e.Count)
}
