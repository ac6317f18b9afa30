package classifier

import (
	"strings"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
)

// fullWidthColon is folded to ASCII ':' before prefix detection, per §3
// "Utterance. ... folding full-width colon to ASCII colon before prefix
// detection."
const fullWidthColon = '：'

// sendMsgSynonyms and momentSynonyms are the fixed-form type-field
// synonyms recognized after the "ss:" prefix (§4.5, case-insensitive).
//
//nolint:gochecknoglobals // static lookup tables
var (
	sendMsgSynonyms = map[string]bool{
		"消息": true, "发消息": true, "xx": true, "msg": true, "message": true,
	}
	momentSynonyms = map[string]bool{
		"朋友圈": true, "pyq": true,
	}
)

// normalize trims the utterance and folds the full-width colon to ASCII,
// the one normalization §3 prescribes before any prefix detection.
func normalize(utterance string) string {
	return strings.ReplaceAll(strings.TrimSpace(utterance), string(fullWidthColon), ":")
}

// tryFastPath parses the fixed-form grammar (§6): "ss" (any case) ':' type
// ':' fields. Returns ok=false on any parse failure, signaling the caller
// to fall through to the model path.
func tryFastPath(normalized string) (domain.ParsedTask, bool) {
	if len(normalized) < 2 || !strings.EqualFold(normalized[:2], constants.FixedFormPrefix) {
		return domain.ParsedTask{}, false
	}
	if len(normalized) == 2 || normalized[2] != ':' {
		return domain.ParsedTask{}, false
	}

	parts := strings.Split(normalized, ":")
	if len(parts) < 3 {
		return domain.ParsedTask{}, false
	}

	typeField := strings.ToLower(strings.TrimSpace(parts[1]))
	fields := parts[2:]

	switch {
	case momentSynonyms[typeField]:
		content := strings.TrimSpace(strings.Join(fields, ":"))
		if content == "" {
			return domain.ParsedTask{}, false
		}
		return domain.ParsedTask{Type: constants.TaskTypePostMoment, Content: content}, true

	case sendMsgSynonyms[typeField]:
		if len(fields) < 2 {
			return domain.ParsedTask{}, false
		}
		recipient := strings.TrimSpace(fields[0])
		content := strings.TrimSpace(strings.Join(fields[1:], ":"))
		if recipient == "" || content == "" {
			return domain.ParsedTask{}, false
		}
		return domain.ParsedTask{Type: constants.TaskTypeSendMsg, Recipient: recipient, Content: content}, true

	default:
		return domain.ParsedTask{}, false
	}
}

// HasFixedPrefix reports whether utterance carries the "ss:" fixed-form
// prefix (case-insensitive, either colon width), without attempting a full
// fast-path parse. The task runner's top-level dispatch (§4.8) uses this to
// decide whether the classifier is consulted at all: a non-prefixed
// utterance skips classification entirely and goes straight to keyword
// routing.
func HasFixedPrefix(utterance string) bool {
	n := normalize(utterance)
	return len(n) >= 3 && strings.EqualFold(n[:2], constants.FixedFormPrefix) && n[2] == ':'
}

// StripFixedPrefix removes a leading "ss:" (post prefix-fold) so the
// remainder can be handed to the model path per §4.8 step 3. Utterances
// without the prefix are returned unchanged.
func StripFixedPrefix(utterance string) string {
	n := normalize(utterance)
	if !HasFixedPrefix(n) {
		return n
	}
	return strings.TrimSpace(n[3:])
}

// isTrivialInput reports whether the utterance carries no usable content:
// blank, or only one or two whitespace/punctuation characters (§4.5
// Failures).
func isTrivialInput(trimmed string) bool {
	if trimmed == "" {
		return true
	}
	runes := []rune(trimmed)
	if len(runes) > 2 {
		return false
	}
	for _, r := range runes {
		if !isPunctOrSpace(r) {
			return false
		}
	}
	return true
}

func isPunctOrSpace(r rune) bool {
	switch {
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	case strings.ContainsRune("!！.。,，?？、:：;；-_~～", r):
		return true
	default:
		return false
	}
}
