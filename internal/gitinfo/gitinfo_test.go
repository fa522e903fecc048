package gitinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitHash_NotARepo(t *testing.T) {
	assert.Equal(t, "", CommitHash(t.TempDir()))
}
