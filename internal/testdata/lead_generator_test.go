package testdata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/importer"
	"github.com/jhoicas/conversion-pro/internal/testdata"
)

func TestGenerateCandidates_Deterministico(t *testing.T) {
	until := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	cfg := testdata.LeadGeneratorConfig{Count: 20, Seed: 42, Until: until, WIPChance: 0.5}

	a := testdata.GenerateCandidates(cfg)
	b := testdata.GenerateCandidates(cfg)
	require.Len(t, a, 20)
	assert.Equal(t, a, b, "misma semilla, mismos leads")

	for _, c := range a {
		assert.Regexp(t, `^[6-9]\d{9}$`, c.MobileNumber)
		assert.True(t, c.Group.Valid())
		assert.Contains(t, []entity.Status{entity.StatusOpen, entity.StatusWIP}, c.Status)
		assert.LessOrEqual(t, c.Date, "2024-03-09")
		assert.GreaterOrEqual(t, c.Date, "2024-02-08")
	}
}

func TestCSV_ReimportaSinRechazos(t *testing.T) {
	cands := testdata.GenerateCandidates(testdata.LeadGeneratorConfig{Count: 10, Seed: 7})

	res := importer.NewParser(importer.Options{DefaultStatus: entity.StatusOpen, Today: "2024-03-09"}).
		ParseText(testdata.CSV(cands))

	assert.Empty(t, res.Rejected)
	require.Len(t, res.Records, 10)
	assert.Equal(t, cands[0].MobileNumber, res.Records[0].MobileNumber)
	assert.Equal(t, cands[0].Group, res.Records[0].Group)
}
