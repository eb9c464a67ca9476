package narrative

import "github.com/wonny/quotecert/internal/contracts"

// Fixed fallback text used whenever the collaborator fails
const (
	FallbackStrength  = "Certification issued and verified"
	FallbackVigilance = "Professional assessment recommended for details"
)

// Fallback returns the generic narrative substituted on collaborator failure
func Fallback() *contracts.Narrative {
	return &contracts.Narrative{
		Strengths:       []string{FallbackStrength},
		VigilancePoints: []string{FallbackVigilance},
	}
}
