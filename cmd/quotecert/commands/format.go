package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/quotecert/internal/analysis"
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/scheduler/jobs"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	doubleLine = "═══════════════════════════════════════════════════════════"
	singleLine = "───────────────────────────────────────────────────────────"
	dateLayout = "2006-01-02"
	keyWidth   = 16
)

// printer writes formatted CLI output
type printer struct {
	w io.Writer
}

func (p printer) header(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, doubleLine)
	fmt.Fprintf(p.w, "  %s\n", title)
	fmt.Fprintln(p.w, singleLine)
}

func (p printer) separator() {
	fmt.Fprintln(p.w, singleLine)
}

func (p printer) footer() {
	fmt.Fprintln(p.w, doubleLine)
}

func (p printer) keyValue(key string, value interface{}) {
	fmt.Fprintf(p.w, "  %-*s : %v\n", keyWidth, key, value)
}

func (p printer) list(items []string) {
	for _, item := range items {
		fmt.Fprintf(p.w, "   • %s\n", item)
	}
}

func (p printer) success(message string) {
	fmt.Fprintf(p.w, "✅ %s\n", message)
}

func (p printer) warning(message string) {
	fmt.Fprintf(p.w, "⚠️  %s\n", message)
}

func (p printer) failure(message string) {
	fmt.Fprintf(p.w, "❌ %s\n", message)
}

// jsonOut writes v as indented JSON
func (p printer) jsonOut(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// analysisReport prints one analysis run
func (p printer) analysisReport(r *analysis.AnalysisReport) {
	p.header("Analysis " + r.RunID)
	p.keyValue("Project", r.ProjectID)
	p.keyValue("Policy", fmt.Sprintf("%s (%s)", r.PolicyID, shortHash(r.PolicyHash)))
	p.separator()

	s := r.Scoring
	p.keyValue("Risk score", fmt.Sprintf("%.2f (%s)", s.RiskScore, s.RiskLevel))
	p.keyValue("Complexity", fmt.Sprintf("-%.2f", s.ComplexityImpact))
	p.keyValue("Global score", fmt.Sprintf("%.2f / 100", s.GlobalScore))
	p.keyValue("Grade", r.Grade)
	p.keyValue("Quote scale", fmt.Sprintf("%d (%s)", r.QuoteScale.Points, r.QuoteScale.Grade))
	if r.GradeMismatch {
		p.warning(fmt.Sprintf("Upstream grade %s differs from computed grade %s", r.UpstreamGrade, r.Grade))
	}
	p.separator()

	c := r.Consistency
	p.keyValue("Consistency", fmt.Sprintf("%d / 100", c.ConsistencyScore))
	p.keyValue("Imbalance", c.ImbalanceDetected)
	p.keyValue("Critical lots", c.HasCriticalLots)
	if len(c.HumanRiskPatterns) > 0 {
		fmt.Fprintln(p.w, "  Risk patterns:")
		p.list(c.HumanRiskPatterns)
	}

	if r.Degraded {
		p.separator()
		p.warning("Analysis degraded: " + firstNonEmpty(s.DegradedReason, c.DegradedReason))
	}

	if rec := r.Certification; rec != nil {
		p.separator()
		p.certification(rec)
	}

	p.footer()
	fmt.Fprintf(p.w, "Completed in %dms\n", r.DurationMS)
}

// certification prints an issued record including its token
func (p printer) certification(rec *contracts.CertificationRecord) {
	p.keyValue("Certification", rec.ID)
	p.keyValue("Grade", fmt.Sprintf("%s (%.2f)", rec.Grade, rec.FinalScore))
	p.keyValue("Valid", fmt.Sprintf("%s ~ %s", rec.IssuedAt.Format(dateLayout), rec.ExpiresAt.Format(dateLayout)))
	p.keyValue("Token", rec.Token)
}

// publicView prints the public verification outcome
func (p printer) publicView(res contracts.PublicViewResult) {
	p.header("Public verification")
	if !res.Valid {
		p.failure(fmt.Sprintf("%s (%s)", res.Message, res.Reason))
		p.footer()
		return
	}

	vm := res.ViewModel
	p.success(res.Message)
	p.keyValue("Enterprise", fmt.Sprintf("%s [%s]", vm.Enterprise.Name, vm.Enterprise.ID))
	p.keyValue("Grade", fmt.Sprintf("%s  %s", vm.Grade, vm.Badge.Label))
	p.keyValue("Score", fmt.Sprintf("%.2f / 100", vm.Score))
	p.keyValue("Valid until", vm.ExpiresAt.Format(dateLayout))
	p.separator()
	fmt.Fprintln(p.w, "  Strengths:")
	p.list(vm.Strengths)
	fmt.Fprintln(p.w, "  Vigilance points:")
	p.list(vm.VigilancePoints)
	if vm.Summary != "" {
		p.separator()
		fmt.Fprintf(p.w, "  %s\n", vm.Summary)
	}
	if vm.NarrativeDegraded {
		p.warning("Narrative service unavailable, fallback text shown")
	}
	p.footer()
}

// tokenStatus prints the lightweight status check
func (p printer) tokenStatus(st contracts.TokenStatus) {
	if !st.Valid {
		p.failure(fmt.Sprintf("%s (%s)", st.Message, st.Reason))
		return
	}
	until := ""
	if st.ExpiresAt != nil {
		until = " until " + st.ExpiresAt.Format(dateLayout)
	}
	p.success(fmt.Sprintf("Grade %s, score %.2f, valid%s", st.Grade, st.Score, until))
}

// expiryReport prints the scheduled expiry report
func (p printer) expiryReport(r *jobs.ExpiryReport) {
	p.header("Certifications expiring soon")
	p.keyValue("Window", fmt.Sprintf("%s ~ %s", r.From.Format(dateLayout), r.To.Format(dateLayout)))
	p.keyValue("Total", r.Total)
	p.separator()
	for _, rec := range r.Records {
		fmt.Fprintf(p.w, "  %s  %s  %s  (D-%d)\n", rec.ID, rec.Grade, rec.ExpiresAt.Format(dateLayout), rec.DaysLeft)
	}
	p.footer()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
