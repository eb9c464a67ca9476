package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quotecert/internal/certification"
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/pkg/logger"
)

func saveRecord(t *testing.T, store *certification.MemoryStore, id string, grade contracts.Grade, expires time.Time) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &contracts.CertificationRecord{
		ID:         id,
		Grade:      grade,
		FinalScore: 70,
		IssuedAt:   expires.Add(-365 * 24 * time.Hour),
		ExpiresAt:  expires,
		Token:      "token-" + id,
	}))
}

func TestExpiryReport(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	store := certification.NewMemoryStore()

	saveRecord(t, store, "past", contracts.GradeA, now.Add(-time.Hour))
	saveRecord(t, store, "soon-a", contracts.GradeA, now.Add(2*24*time.Hour))
	saveRecord(t, store, "soon-c", contracts.GradeC, now.Add(10*24*time.Hour))
	saveRecord(t, store, "later", contracts.GradeB, now.Add(90*24*time.Hour))

	job := NewExpiryReportJob(store, 0, logger.Nop()).WithClock(func() time.Time { return now })
	assert.Equal(t, "certification_expiry_report", job.Name())

	report, err := job.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, map[contracts.Grade]int{contracts.GradeA: 1, contracts.GradeC: 1}, report.ByGrade)
	assert.Equal(t, "soon-a", report.Records[0].ID)
	assert.Equal(t, 2, report.Records[0].DaysLeft)
	assert.Equal(t, now.Add(DefaultExpiryHorizon), report.To)

	// 보고서 출력에 bearer 토큰이 섞이지 않음
	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "token-soon-a")
	assert.NotContains(t, string(out), `"token"`)

	// 보고 후에도 레코드는 그대로
	_, err = store.Get(context.Background(), "past")
	assert.NoError(t, err)
}

type failingRepo struct{ contracts.CertificationRepository }

func (failingRepo) ListExpiring(context.Context, time.Time, time.Time) ([]contracts.CertificationRecord, error) {
	return nil, errors.New("store down")
}

func TestExpiryReport_StoreError(t *testing.T) {
	err := NewExpiryReportJob(failingRepo{}, time.Hour, logger.Nop()).Run(context.Background())
	assert.ErrorContains(t, err, "store down")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestBackendHealthJob(t *testing.T) {
	ok := NewBackendHealthJob(pingerFunc(func(context.Context) error { return nil }), logger.Nop())
	assert.NoError(t, ok.Run(context.Background()))

	down := NewBackendHealthJob(pingerFunc(func(context.Context) error { return errors.New("refused") }), logger.Nop())
	assert.ErrorContains(t, down.Run(context.Background()), "refused")
}
