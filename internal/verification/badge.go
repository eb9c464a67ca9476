package verification

import (
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
)

// criticalBadge 정책 테이블에 E 항목이 없을 때의 최종 기본값
var criticalBadge = contracts.Badge{
	Label:       "Critical",
	Level:       contracts.BadgeCritical,
	Color:       "#dc2626",
	Description: "Quote presents critical risks and requires a professional review",
}

// BadgeFor maps a grade to its badge. Total: unknown grades get the E/critical entry.
func BadgeFor(p *policy.Policy, g contracts.Grade) contracts.Badge {
	if p == nil {
		p = policy.Default()
	}
	if b, ok := p.BadgeFor(g); ok {
		return b.Badge()
	}
	if b, ok := p.BadgeFor(contracts.GradeE); ok {
		return b.Badge()
	}
	return criticalBadge
}
