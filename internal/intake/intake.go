package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
)

// maxDocumentSize 업로드 문서 상한 (1 MiB)
const maxDocumentSize = 1 << 20

// Decode reads a YAML or JSON document and returns a validated context.
// JSON is decoded by the YAML decoder; unknown fields are rejected.
func Decode(r io.Reader) (*contracts.ExecutionContext, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, contracts.ValidationError{Field: "document", Message: "exceeds 1 MiB"}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, contracts.ValidationError{Field: "document", Message: "empty"}
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, contracts.ValidationError{Field: "document", Message: err.Error()}
	}

	return FromDocument(&doc)
}

// LoadFile decodes a context document from disk
func LoadFile(path string) (*contracts.ExecutionContext, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open context %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// FromDocument converts a loose document into a strictly typed context
// ⭐ SSOT: "값이 없을 수 있음" 처리는 여기서만 수행, 엔진은 검증된 컨텍스트만 받음
func FromDocument(doc *Document) (*contracts.ExecutionContext, error) {
	if doc == nil {
		return nil, contracts.ValidationError{Field: "document", Message: "required"}
	}

	ec := &contracts.ExecutionContext{
		ProjectID:   strings.TrimSpace(doc.ProjectID),
		Obligations: make([]contracts.Obligation, 0, len(doc.Obligations)),
		Lots:        make([]contracts.Lot, 0, len(doc.Lots)),
	}

	for i, o := range doc.Obligations {
		ob, err := obligationFrom(i, o)
		if err != nil {
			return nil, err
		}
		ec.Obligations = append(ec.Obligations, ob)
	}

	complexLots := 0
	for i, l := range doc.Lots {
		lotType := firstNonEmpty(l.Type, l.Category)
		if lotType == "" {
			return nil, contracts.ValidationError{Field: fmt.Sprintf("lots[%d].type", i), Message: "required"}
		}
		if l.Complex {
			complexLots++
		}
		ec.Lots = append(ec.Lots, contracts.Lot{
			Code:  firstNonEmpty(l.Code, fmt.Sprintf("LOT-%d", i+1)),
			Type:  policy.NormalizeLotType(lotType),
			Label: strings.TrimSpace(l.Label),
		})
	}

	// 명시값이 없으면 complex 로 표시된 lot 수를 사용
	ec.LotComplexityCount = complexLots
	if doc.LotComplexityCount != nil {
		ec.LotComplexityCount = *doc.LotComplexityCount
	}

	if g := strings.TrimSpace(doc.FinalGrade); g != "" {
		grade, err := contracts.ParseGrade(g)
		if err != nil {
			return nil, contracts.ValidationError{Field: "final_grade", Message: fmt.Sprintf("unknown grade %q", g)}
		}
		ec.FinalGrade = grade
	}

	// 필러 점수 4개는 모두 필수 (누락 ≠ 0)
	pillars := []struct {
		field string
		value *float64
		dst   *float64
	}{
		{"scores.enterprise", doc.Scores.Enterprise, &ec.EnterpriseScore},
		{"scores.pricing", doc.Scores.Pricing, &ec.PricingScore},
		{"scores.quality", doc.Scores.Quality, &ec.QualityScore},
		{"scores.global", doc.Scores.Global, &ec.GlobalScore},
	}
	for _, p := range pillars {
		if p.value == nil {
			return nil, contracts.ValidationError{Field: p.field, Message: "required"}
		}
		*p.dst = *p.value
	}

	if err := ec.Validate(); err != nil {
		return nil, err
	}
	return ec, nil
}

func obligationFrom(i int, o ObligationDoc) (contracts.Obligation, error) {
	field := fmt.Sprintf("obligations[%d]", i)

	rawType := firstNonEmpty(o.Type, o.Classification)
	if rawType == "" {
		return contracts.Obligation{}, contracts.ValidationError{Field: field + ".type", Message: "required"}
	}
	if o.Weight == nil {
		return contracts.Obligation{}, contracts.ValidationError{Field: field + ".weight", Message: "required"}
	}

	severity := contracts.Severity(strings.ToLower(strings.TrimSpace(o.Severity)))
	if severity == "" {
		severity = contracts.SeverityMedium
	}

	return contracts.Obligation{
		ID:       firstNonEmpty(o.ID, fmt.Sprintf("OBL-%d", i+1)),
		Label:    strings.TrimSpace(o.Label),
		Type:     contracts.ObligationType(strings.ToLower(rawType)),
		Severity: severity,
		Weight:   *o.Weight,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
