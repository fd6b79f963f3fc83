package service

import (
	"fmt"
	"strings"
)

// scriptedReply derives a deterministic assistant reply from the bot's
// configured prompt and the user's text. It is a stand-in pending a real
// inference backend; the interface stays the same when one is wired in.
func scriptedReply(botName, prompt, userText string) string {
	if prompt == "" {
		return fmt.Sprintf("%s received your message. (Connect an AI API for real bot replies.)", botName)
	}

	sentences := strings.Split(prompt, ".")
	if len(sentences) > 2 {
		sentences = sentences[:2]
	}
	persona := strings.Join(sentences, ".")

	return fmt.Sprintf(`[%s]: %s... You said: "%s". (This is a placeholder reply; connect an AI API for real responses.)`,
		botName, persona, truncate(userText, 50))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
