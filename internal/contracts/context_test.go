package contracts

import (
	"errors"
	"math"
	"testing"
	"time"
)

func validContext() *ExecutionContext {
	return &ExecutionContext{
		ProjectID: "PRJ-1",
		Obligations: []Obligation{
			{ID: "o1", Type: ObligationLegal, Severity: SeverityHigh, Weight: 15},
			{ID: "o2", Type: ObligationCommercial, Severity: SeverityLow, Weight: 5},
		},
		Lots:            []Lot{{Code: "L1", Type: "roofing"}},
		EnterpriseScore: 20,
		PricingScore:    15,
		QualityScore:    12,
		GlobalScore:     80,
		FinalGrade:      GradeA,
	}
}

func TestExecutionContext_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(ec *ExecutionContext)
		wantField string
	}{
		{name: "valid", mutate: func(ec *ExecutionContext) {}},
		{name: "empty grade allowed", mutate: func(ec *ExecutionContext) { ec.FinalGrade = "" }},
		{
			name:      "unknown obligation type",
			mutate:    func(ec *ExecutionContext) { ec.Obligations[0].Type = "ethical" },
			wantField: "obligations[0].type",
		},
		{
			name:      "negative weight",
			mutate:    func(ec *ExecutionContext) { ec.Obligations[1].Weight = -1 },
			wantField: "obligations[1].weight",
		},
		{
			name:      "NaN weight",
			mutate:    func(ec *ExecutionContext) { ec.Obligations[0].Weight = math.NaN() },
			wantField: "obligations[0].weight",
		},
		{
			name:      "enterprise above native max",
			mutate:    func(ec *ExecutionContext) { ec.EnterpriseScore = 26 },
			wantField: "enterprise_score",
		},
		{
			name:      "negative complexity",
			mutate:    func(ec *ExecutionContext) { ec.LotComplexityCount = -2 },
			wantField: "lot_complexity_count",
		},
		{
			name:      "unknown grade",
			mutate:    func(ec *ExecutionContext) { ec.FinalGrade = "Z" },
			wantField: "final_grade",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := validContext()
			tt.mutate(ec)

			err := ec.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("ValidationError should unwrap to ErrValidation")
			}
		})
	}
}

func TestExecutionContext_ValidateNil(t *testing.T) {
	var ec *ExecutionContext
	if err := ec.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate() on nil = %v, want ErrValidation", err)
	}
}

func TestStructuralFlags_Count(t *testing.T) {
	flags := StructuralFlags{ComplianceQualityMismatch: true, CriticalLotEnterpriseWeakness: true}
	if got := flags.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if got := (StructuralFlags{}).Count(); got != 0 {
		t.Errorf("Count() on empty = %d, want 0", got)
	}
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		input   string
		want    Grade
		wantErr bool
	}{
		{"A", GradeA, false},
		{" b ", GradeB, false},
		{"e", GradeE, false},
		{"A+", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGrade(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGrade(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGrade(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCertificationRecord_ExpiredAt(t *testing.T) {
	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &CertificationRecord{ExpiresAt: exp}

	if rec.ExpiredAt(exp) {
		t.Error("record should still be valid exactly at ExpiresAt")
	}
	if !rec.ExpiredAt(exp.Add(time.Second)) {
		t.Error("record should be expired one second after ExpiresAt")
	}
}

func TestValidityFromDays(t *testing.T) {
	tests := []struct {
		days    int
		want    time.Duration
		wantErr bool
	}{
		{0, 0, false},
		{90, 90 * 24 * time.Hour, false},
		{MaxValidityDays, MaxValidity, false},
		{-1, 0, true},
		{MaxValidityDays + 1, 0, true},
		{213504, 0, true}, // int64 나노초 곱셈이 감기는 값
	}

	for _, tt := range tests {
		got, err := ValidityFromDays(tt.days)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ValidityFromDays(%d) error = %v, wantErr %v", tt.days, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrValidation) {
			t.Errorf("ValidityFromDays(%d) error = %v, want ErrValidation", tt.days, err)
		}
		if got != tt.want {
			t.Errorf("ValidityFromDays(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestEnterpriseIdentity_Validate(t *testing.T) {
	if err := (EnterpriseIdentity{Name: "Bati SARL", ID: "12345678900011"}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	if err := (EnterpriseIdentity{Name: "Bati SARL"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate() without id = %v, want ErrValidation", err)
	}
	if err := (EnterpriseIdentity{ID: "x"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate() without name = %v, want ErrValidation", err)
	}
}

func TestStage_ShortName(t *testing.T) {
	for i, stage := range AllStages() {
		if !IsValidStage(string(stage)) {
			t.Errorf("stage %s should be valid", stage)
		}
		want := "C" + string(rune('0'+i))
		if got := stage.ShortName(); got != want {
			t.Errorf("%s.ShortName() = %s, want %s", stage, got, want)
		}
	}
	if IsValidStage("S0_DATA_QUALITY") {
		t.Error("unknown stage should be invalid")
	}
}
