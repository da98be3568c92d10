// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bureau-foundation/roomview/lib/ref"
)

// Message is one row of the timeline: a decoded event plus the flags
// derived from the room at the time it was added.
type Message struct {
	Event Event

	// IsHighlight is set when the message body mentions the local user
	// or one of the configured highlight keywords.
	IsHighlight bool

	// IsStatusMessage marks rows synthesized locally rather than
	// received from the server. Nothing in the model produces them yet;
	// the field is carried so that a presentation layer inserting such
	// rows can be told apart.
	IsStatusMessage bool
}

// Highlighter decides whether a message mentions the local user.
type Highlighter struct {
	// Keywords are extra case-insensitive words that highlight a
	// message.
	Keywords []string
}

// Matches reports whether event is a message from someone other than
// localUser whose plain-text body mentions (case-insensitively, as a
// whole word) the local user's localpart, the local display name, or a
// keyword.
func (h Highlighter) Matches(event Event, localUser ref.UserID, localDisplayName string) bool {
	payload, ok := event.Payload.(MessagePayload)
	if !ok || event.Sender == localUser {
		return false
	}
	body := strings.ToLower(payload.Body)
	if body == "" {
		return false
	}

	needles := make([]string, 0, len(h.Keywords)+2)
	if !localUser.IsZero() {
		needles = append(needles, localUser.Localpart())
	}
	needles = append(needles, localDisplayName)
	needles = append(needles, h.Keywords...)
	for _, needle := range needles {
		needle = strings.TrimSpace(needle)
		if needle != "" && containsWord(body, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

// containsWord reports whether needle occurs in text without a word
// character joined to either end. "al" is found in "hi al!" but not in
// "really".
func containsWord(text, needle string) bool {
	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)
	for offset := 0; offset <= len(text)-len(needle); {
		index := strings.Index(text[offset:], needle)
		if index < 0 {
			return false
		}
		start := offset + index
		end := start + len(needle)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !(isWordRune(first) && start > 0 && isWordRune(before)) &&
			!(isWordRune(last) && end < len(text) && isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
