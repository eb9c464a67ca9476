package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 리포트, DB row에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   C0 → {C1, C2} → C3 ... (시간 분리) ... C4
//   Intake  Scoring/Consistency  Certification  Verification

// Stage represents a pipeline stage
type Stage string

const (
	// StageIntake C0: 실행 컨텍스트 수집 및 검증
	// 책임: 느슨한 입력 문서를 검증된 ExecutionContext 로 변환
	// 위치: internal/intake/
	StageIntake Stage = "C0_INTAKE"

	// StageScoring C1: 위험 가중 점수 계산
	// 책임: 의무 유형별 가중치 합산, 복잡도 영향, 종합 점수/위험 등급
	// 위치: internal/scoring/
	StageScoring Stage = "C1_SCORING"

	// StageConsistency C2: 구조적 일관성 감사
	// 책임: 필러 간 모순 탐지 (C1 과 병렬, 상호 의존 없음)
	// 위치: internal/consistency/
	StageConsistency Stage = "C2_CONSISTENCY"

	// StageCertification C3: 인증서 발급
	// 책임: 등급/점수 기록, 서명 토큰 생성, 저장
	// 위치: internal/certification/
	StageCertification Stage = "C3_CERTIFICATION"

	// StageVerification C4: 공개 검증 (신뢰 경계)
	// 책임: 토큰 검증, 만료 확인, 내러티브, 뷰 모델 조립
	// 위치: internal/verification/
	StageVerification Stage = "C4_VERIFICATION"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "C0", "C1")
func (s Stage) ShortName() string {
	switch s {
	case StageIntake:
		return "C0"
	case StageScoring:
		return "C1"
	case StageConsistency:
		return "C2"
	case StageCertification:
		return "C3"
	case StageVerification:
		return "C4"
	default:
		return "UNKNOWN"
	}
}

// Description returns Korean description of the stage
func (s Stage) Description() string {
	switch s {
	case StageIntake:
		return "컨텍스트 수집/검증"
	case StageScoring:
		return "위험 가중 점수"
	case StageConsistency:
		return "구조적 일관성 감사"
	case StageCertification:
		return "인증서 발급"
	case StageVerification:
		return "공개 검증"
	default:
		return "알 수 없음"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageIntake,
		StageScoring,
		StageConsistency,
		StageCertification,
		StageVerification,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult represents the result of one stage within an analysis run
type StageResult struct {
	Stage      Stage  `json:"stage"`
	Success    bool   `json:"success"`
	Degraded   bool   `json:"degraded"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}
