// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Title validates a list or task title is non-empty after trimming whitespace.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// TitleField returns a criterio validator for titles.
func TitleField(field, title string) error {
	return criterio.Run(field, title, Title)
}

// Email validates a collaborator email is non-empty after trimming.
// The system never verifies that the address maps to a registered
// account, so no format check is applied here.
func Email(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

// EmailField returns a criterio validator for collaborator emails.
func EmailField(field, email string) error {
	return criterio.Run(field, email, Email)
}
