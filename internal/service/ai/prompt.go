package ai

import (
	"fmt"

	"github.com/elitechat/elite/backend/internal/analysis/tone"
	"github.com/elitechat/elite/backend/internal/model/roster"
)

// buildSystemPrompt frames the model as the conversation partner, colored by
// the traits the tone analyzer reads off the partner's profile.
func (s *Service) buildSystemPrompt(partner roster.Summary) string {
	profile := tone.Describe(partner, s.now())

	return fmt.Sprintf(`You are a conversational AI embedded in Elite. You reply on behalf of %s. %s.
Your reply style must reflect these traits. Be natural, friendly and concise.`,
		partner.Name,
		profile.Sentence(),
	)
}
