package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "fine") })
	assert.PanicsWithValue(t, "invariant violated - broken", func() { AssertInvariant(false, "broken") })
}

func TestTrimDiscordMessage(t *testing.T) {
	t.Run("short message is unchanged", func(t *testing.T) {
		assert.Equal(t, "反応数0 ```  ```\n", TrimDiscordMessage("反応数0 ```  ```\n"))
	})

	t.Run("exactly at limit is unchanged", func(t *testing.T) {
		msg := strings.Repeat("a", 2000)
		assert.Equal(t, msg, TrimDiscordMessage(msg))
	})

	t.Run("long message is cut with suffix", func(t *testing.T) {
		msg := strings.Repeat("b", 2500)
		trimmed := TrimDiscordMessage(msg)
		assert.Equal(t, 2000, len(trimmed))
		assert.True(t, strings.HasSuffix(trimmed, "..."))
	})

	t.Run("multibyte message is cut on rune boundary", func(t *testing.T) {
		msg := strings.Repeat("反", 2100)
		trimmed := TrimDiscordMessage(msg)
		assert.True(t, utf8.ValidString(trimmed))
		assert.Equal(t, 2000, utf8.RuneCountInString(trimmed))
	})
}
