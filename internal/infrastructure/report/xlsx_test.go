package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/supplymatch/backend/internal/domain"
)

func TestXLSXWriter(t *testing.T) {
	rep := &domain.AuditReport{
		RanAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Scanned: 3,
		Issues: []domain.AuditIssue{
			{OfferID: "off-1", Name: "bait pack", Code: domain.IssueExcluded, Detail: "forbidden class"},
			{OfferID: "off-2", Name: "12 34 56", Code: domain.IssueUnclassified},
		},
		ByCode: map[string]int{
			domain.IssueExcluded:     1,
			domain.IssueUnclassified: 1,
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewXLSXWriter().Write(rep, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Issues")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per issue")
	assert.Equal(t, []string{"Offer ID", "Name", "Issue Code", "Detail"}, rows[0])
	assert.Equal(t, "off-1", rows[1][0])
	assert.Equal(t, domain.IssueExcluded, rows[1][2])

	scanned, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", scanned)
}
