package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	assert.NoError(t, Title("Groceries"))
	assert.NoError(t, Title("  padded  "))
	assert.Error(t, Title(""))
	assert.Error(t, Title("   "))
	assert.Error(t, Title("\t\n"))
}

func TestTitleField_NamesTheField(t *testing.T) {
	err := TitleField("title", "  ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("a@example.com"))
	// No format validation: the address is never checked against an
	// account, so any non-blank string passes.
	assert.NoError(t, Email("not-an-email"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("   "))
}
