package chat

import (
	"sort"
	"strings"
	"unicode"
)

// EveryoneSentinel in a message body mentions every confirmed member.
const EveryoneSentinel = "everyone"

// MentionTarget pairs a member's user ID with the display name mentions
// resolve against.
type MentionTarget struct {
	UserID      int64
	DisplayName string
}

// ParseMentions resolves "@name" references in a message body against the
// trip's member display names. Matching is case-insensitive and prefers the
// longest matching name, so "@Mary Ann" resolves to the member named
// "Mary Ann" rather than one named "Mary". "@everyone" expands to every
// target. Each user appears at most once in the result, in first-mention
// order.
func ParseMentions(body string, targets []MentionTarget) []int64 {
	if body == "" || len(targets) == 0 {
		return nil
	}

	candidates := make([]MentionTarget, len(targets))
	copy(candidates, targets)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].DisplayName) > len(candidates[j].DisplayName)
	})

	lowerBody := strings.ToLower(body)
	seen := make(map[int64]bool)
	var mentioned []int64

	add := func(userID int64) {
		if !seen[userID] {
			seen[userID] = true
			mentioned = append(mentioned, userID)
		}
	}

	for i := 0; i < len(lowerBody); i++ {
		if lowerBody[i] != '@' {
			continue
		}
		rest := lowerBody[i+1:]

		if matchLen := matchAt(rest, EveryoneSentinel); matchLen > 0 {
			for _, t := range targets {
				add(t.UserID)
			}
			i += matchLen
			continue
		}

		matchedLen := 0
		var matchedUser int64
		for _, c := range candidates {
			name := strings.ToLower(c.DisplayName)
			if name == "" {
				continue
			}
			if l := matchAt(rest, name); l > 0 {
				matchedLen = l
				matchedUser = c.UserID
				break
			}
		}
		if matchedLen > 0 {
			add(matchedUser)
			i += matchedLen
		}
	}

	return mentioned
}

// MentionsEveryone reports whether the body contains the @everyone sentinel.
func MentionsEveryone(body string) bool {
	lower := strings.ToLower(body)
	for i := 0; i < len(lower); i++ {
		if lower[i] == '@' && matchAt(lower[i+1:], EveryoneSentinel) > 0 {
			return true
		}
	}
	return false
}

// matchAt reports the length of name if text starts with it and the match
// ends at a word boundary, zero otherwise.
func matchAt(text, name string) int {
	if !strings.HasPrefix(text, name) {
		return 0
	}
	if len(text) > len(name) {
		next := rune(text[len(name)])
		if unicode.IsLetter(next) || unicode.IsDigit(next) {
			return 0
		}
	}
	return len(name)
}
