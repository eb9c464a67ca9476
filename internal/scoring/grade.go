package scoring

import (
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
)

// GradeFor derives the A ~ E certification grade from a 0 ~ 100 global score
func GradeFor(score float64, bands policy.GradeBands) contracts.Grade {
	switch {
	case score >= bands.AMin:
		return contracts.GradeA
	case score >= bands.BMin:
		return contracts.GradeB
	case score >= bands.CMin:
		return contracts.GradeC
	case score >= bands.DMin:
		return contracts.GradeD
	default:
		return contracts.GradeE
	}
}
