package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/sharechart/internal/ingest"
	"github.com/ppiankov/sharechart/internal/model"
)

const ridershipCSV = `사용일자,노선명,역명,승차총승객수,하차총승객수
20251001,1호선,서울역,100,80
20251001,1호선,시청,50,70
20251001,2호선,강남,300,310
20251002,1호선,서울역,90,60
20250930,1호선,서울역,1,1
20251001,1호선,종각,60,60
`

func loadDataset(t *testing.T, csv string) *Dataset {
	t.Helper()
	table, err := ingest.Parse("subway.csv", []byte(csv))
	require.NoError(t, err)

	records, err := Records(table, ColumnsFromConfig(model.DefaultConfig().Transit))
	require.NoError(t, err)
	return NewDataset(records)
}

func TestRecords(t *testing.T) {
	d := loadDataset(t, ridershipCSV)
	require.Equal(t, 6, d.Len())

	r := d.records[0]
	assert.Equal(t, "2025-10-01", r.Day())
	assert.Equal(t, "1호선", r.Line)
	assert.Equal(t, "서울역", r.Station)
	assert.Equal(t, 180, r.Total())
}

func TestRecords_DateAlias(t *testing.T) {
	d := loadDataset(t, "f,노선명,역명,승차총승객수,하차총승객수\n20251003,3호선,교대,1,2\n")
	assert.Equal(t, []string{"2025-10-03"}, d.Dates())
}

func TestRecords_BadDate(t *testing.T) {
	table, err := ingest.Parse("subway.csv", []byte("사용일자,노선명,역명,승차총승객수,하차총승객수\n2025-10-01,1호선,서울역,1,1\n"))
	require.NoError(t, err)

	_, err = Records(table, ColumnsFromConfig(model.DefaultConfig().Transit))
	var pe *ingest.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "사용일자", pe.Column)
}

func TestDataset_InMonth(t *testing.T) {
	d, err := loadDataset(t, ridershipCSV).InMonth("2025-10")
	require.NoError(t, err)

	assert.Equal(t, 5, d.Len())
	assert.Equal(t, []string{"2025-10-01", "2025-10-02"}, d.Dates())
	assert.Equal(t, []string{"1호선", "2호선"}, d.Lines())

	all, err := loadDataset(t, ridershipCSV).InMonth("")
	require.NoError(t, err)
	assert.Equal(t, 6, all.Len())

	_, err = d.InMonth("October")
	assert.Error(t, err)
}

func TestDataset_SelectDefaults(t *testing.T) {
	d, err := loadDataset(t, ridershipCSV).InMonth("2025-10")
	require.NoError(t, err)

	sel, err := d.Select("", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-01", sel.Date)
	assert.Equal(t, "1호선", sel.Line)
	assert.Len(t, sel.Records, 3)
}

func TestDataset_SelectUnknown(t *testing.T) {
	d := loadDataset(t, ridershipCSV)

	_, err := d.Select("2030-01-01", "")
	assert.ErrorIs(t, err, ErrUnknownSelection)

	_, err = d.Select("", "9호선")
	assert.ErrorIs(t, err, ErrUnknownSelection)
}

func TestDataset_SelectEmpty(t *testing.T) {
	sel, err := NewDataset(nil).Select("", "")
	require.NoError(t, err)
	assert.Empty(t, sel.Records)
}

func TestRank(t *testing.T) {
	d := loadDataset(t, ridershipCSV)
	sel, err := d.Select("2025-10-01", "1호선")
	require.NoError(t, err)

	rows, counts := Rank(sel.Records)

	assert.Equal(t, []model.StationRow{
		{Station: "서울역", Boardings: 100, Alightings: 80, Total: 180},
		{Station: "시청", Boardings: 50, Alightings: 70, Total: 120},
		{Station: "종각", Boardings: 60, Alightings: 60, Total: 120},
	}, rows)
	assert.Equal(t, []model.CategoryCount{
		{Label: "서울역", Count: 180},
		{Label: "시청", Count: 120},
		{Label: "종각", Count: 120},
	}, counts)
}

func TestRank_MergesDuplicateStations(t *testing.T) {
	records := []Record{
		{Station: "A", Boardings: 1, Alightings: 2},
		{Station: "B", Boardings: 5, Alightings: 5},
		{Station: "A", Boardings: 10, Alightings: 0},
	}

	rows, counts := Rank(records)
	require.Len(t, rows, 2)
	assert.Equal(t, model.StationRow{Station: "A", Boardings: 11, Alightings: 2, Total: 13}, rows[0])
	assert.Equal(t, []model.CategoryCount{{Label: "A", Count: 13}, {Label: "B", Count: 10}}, counts)
}

func TestRank_Empty(t *testing.T) {
	rows, counts := Rank(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Empty(t, counts)
}
