package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"meeting_room", "boardroom", "terrace", "parking", "dining"} {
		cat, err := ParseCategory(valid)
		require.NoError(t, err)
		assert.Equal(t, Category(valid), cat)
	}

	for _, invalid := range []string{"", "pool", "MEETING_ROOM", "meeting room"} {
		_, err := ParseCategory(invalid)
		assert.Error(t, err, "category %q should be rejected", invalid)
	}
}
