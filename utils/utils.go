package utils

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// TrimDiscordMessage trims a Discord message to the 2000 character limit.
// Discord counts characters, not bytes, so the cut happens on rune boundaries.
func TrimDiscordMessage(message string) string {
	const discordMessageLimit = 2000
	const truncationSuffix = "..."

	runes := []rune(message)
	if len(runes) <= discordMessageLimit {
		return message
	}

	return string(runes[:discordMessageLimit-len(truncationSuffix)]) + truncationSuffix
}
