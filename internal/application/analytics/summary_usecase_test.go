package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/application/analytics"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/stats"
)

type staticLeads []entity.Lead

func (s staticLeads) All() []entity.Lead { return s }

type fakePDF struct{ got stats.Summary }

func (f *fakePDF) GenerateSummaryPDF(_ context.Context, sum stats.Summary, _ time.Time) ([]byte, error) {
	f.got = sum
	return []byte("%PDF-fake"), nil
}

var admin = entity.User{ID: "30530", Role: entity.RoleAdmin}

func TestGetSummary(t *testing.T) {
	leads := staticLeads{
		{Group: entity.GroupApple, Status: entity.StatusClosed},
		{Group: entity.GroupApple, Status: entity.StatusOpen},
		{Group: entity.GroupApple, Status: entity.StatusWIP},
		{Group: entity.GroupComputers, Status: entity.StatusSaleLost},
	}
	uc := analytics.NewSummaryUseCase(leads, nil)

	out, err := uc.GetSummary(admin)

	require.NoError(t, err)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, "25.0", out.ConversionRate)
	require.Len(t, out.Groups, 2)
	assert.Equal(t, "Apple Devices", out.Groups[0].Group)
	assert.Equal(t, 33, out.Groups[0].Rate)
}

func TestGetSummary_SoloAdmin(t *testing.T) {
	uc := analytics.NewSummaryUseCase(staticLeads{}, nil)
	_, err := uc.GetSummary(entity.User{ID: "1234", Role: entity.RoleEmployee})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSummaryPDF(t *testing.T) {
	gen := &fakePDF{}
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	uc := analytics.NewSummaryUseCase(staticLeads{{Group: entity.GroupApple, Status: entity.StatusClosed}}, gen).
		WithClock(func() time.Time { return now })

	rep, err := uc.SummaryPDF(context.Background(), admin)

	require.NoError(t, err)
	assert.Equal(t, "summary_2024-03-09.pdf", rep.Filename)
	assert.Equal(t, "application/pdf", rep.ContentType)
	assert.Equal(t, 1, gen.got.ByStatus.Closed)
}
