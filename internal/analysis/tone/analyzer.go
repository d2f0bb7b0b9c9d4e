package tone

import (
	"strings"
	"time"

	"github.com/elitechat/elite/backend/internal/model/roster"
)

// Profile carries the personality hints derived from a conversation partner.
type Profile struct {
	Traits []string
}

// Describe infers conversational traits from the partner's roster entry.
// The reply generator folds these into its system prompt so each simulated
// partner keeps a consistent voice.
func Describe(partner roster.Summary, now time.Time) Profile {
	traits := make([]string, 0, 8)

	if partner.IsOnline {
		traits = append(traits, "You are available and quick to respond")
	} else {
		traits = append(traits, "You sometimes reply with a slight delay")
	}

	if partner.HasStory {
		traits = append(traits, "You are keen on current news and trends")
	}

	if now.Sub(partner.Time) > 24*time.Hour {
		traits = append(traits, "You apologize for replying late")
	}

	if len(partner.Name) > 15 {
		traits = append(traits, "You use fairly formal language")
	} else {
		traits = append(traits, "You keep the language casual")
	}

	if !partner.IsRead {
		traits = append(traits, "You occasionally refer back to unread messages")
	}

	// Female clue is checked first: "women" contains "men".
	name := strings.ToLower(partner.Name)
	switch {
	case strings.Contains(partner.Avatar, "women") || strings.HasSuffix(name, "a"):
		traits = append(traits, "You have a warm, feminine voice")
	case strings.Contains(partner.Avatar, "men") || strings.HasSuffix(name, "o"):
		traits = append(traits, "You have a calm, masculine voice")
	}

	hour := partner.Time.Hour()
	switch {
	case hour < 5 || hour > 22:
		traits = append(traits, "You seem to be a night owl")
	case hour < 12:
		traits = append(traits, "You are a morning person, full of energy")
	}

	return Profile{Traits: traits}
}

// Sentence joins the traits into one prompt-ready sentence.
func (p Profile) Sentence() string {
	return strings.Join(p.Traits, ". ")
}
