package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangelogArgs(t *testing.T) {
	assert.Equal(t, []string{"--output", "CHANGELOG.md"}, changelogArgs("", "", ""))
	assert.Equal(t, []string{"--next-tag", "v0.2.0", "--output", "CHANGES.md"}, changelogArgs("v0.2.0", "CHANGES.md", ""))
	assert.Equal(t, []string{"v0.1.0", "--output", "CHANGELOG.md"}, changelogArgs("", "CHANGELOG.md", "v0.1.0"))
}
