package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
)

// makeRecords builds n records with a sequential "seq" field and a fixed
// name so ordering assertions are easy.
func makeRecords(n int) []dataset.Record {
	records := make([]dataset.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, dataset.Record{
			"seq":  dataset.Number(float64(i)),
			"name": dataset.String(fmt.Sprintf("person-%03d", i)),
		})
	}
	return records
}

func TestValidPageSize(t *testing.T) {
	assert.True(t, ValidPageSize(10))
	assert.True(t, ValidPageSize(20))
	assert.True(t, ValidPageSize(50))
	assert.False(t, ValidPageSize(0))
	assert.False(t, ValidPageSize(25))
	assert.False(t, ValidPageSize(-10))
}

func TestDefaultState(t *testing.T) {
	state := DefaultState()
	assert.Equal(t, dataset.ModeProfiles, state.Mode)
	assert.Empty(t, state.Query)
	assert.Zero(t, state.PageIndex)
	assert.Equal(t, DefaultPageSize, state.PageSize)
}

func TestComputeProjection_EmptyQueryProjectsAll(t *testing.T) {
	records := makeRecords(5)

	for _, query := range []string{"", "   ", "\t"} {
		p := ComputeProjection(records, query)
		assert.Equal(t, 5, p.TotalCount)
		assert.Len(t, p.Items, 5)
	}
}

func TestComputeProjection_FilterIsStableAndCaseInsensitive(t *testing.T) {
	records := []dataset.Record{
		{"name": dataset.String("Anita Smith")},
		{"name": dataset.String("Rahul Verma")},
		{"name": dataset.String("John SMITHSON")},
		{"name": dataset.String("Mary Jones")},
	}

	p := ComputeProjection(records, "  SMITH ")
	require.Equal(t, 2, p.TotalCount)

	// Matches keep their original relative order.
	name0, _ := p.Items[0]["name"].Text()
	name1, _ := p.Items[1]["name"].Text()
	assert.Equal(t, "Anita Smith", name0)
	assert.Equal(t, "John SMITHSON", name1)
}

func TestComputeProjection_NoMatches(t *testing.T) {
	p := ComputeProjection(makeRecords(10), "zzz-not-there")
	assert.Zero(t, p.TotalCount)
	assert.Empty(t, p.Items)
}

func TestPaginate_MiddlePage(t *testing.T) {
	p := ComputeProjection(makeRecords(25), "")

	page := Paginate(p, 1, 10)
	assert.Equal(t, 25, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 11, page.StartIndex)
	assert.Equal(t, 20, page.EndIndex)
	assert.True(t, page.HasPrev)
	assert.True(t, page.HasNext)

	// Last page holds the remainder.
	last := Paginate(p, 2, 10)
	assert.Len(t, last.Items, 5)
	assert.Equal(t, 21, last.StartIndex)
	assert.Equal(t, 25, last.EndIndex)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)
}

func TestPaginate_ConcatenatedPagesReconstructProjection(t *testing.T) {
	records := makeRecords(47)
	p := ComputeProjection(records, "")

	var rebuilt []dataset.Record
	total := Paginate(p, 0, 20).TotalPages
	for i := 0; i < total; i++ {
		page := Paginate(p, i, 20)
		rebuilt = append(rebuilt, page.Items...)
	}

	require.Len(t, rebuilt, 47)
	assert.Equal(t, records, rebuilt)
}

func TestPaginate_EmptyProjectionStillHasOnePage(t *testing.T) {
	page := Paginate(Projection{}, 0, 10)
	assert.Equal(t, 1, page.TotalPages)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.StartIndex)
	assert.Zero(t, page.EndIndex)
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestPaginate_OutOfRangePageIsEmptyNotError(t *testing.T) {
	p := ComputeProjection(makeRecords(15), "")

	page := Paginate(p, 7, 10)
	assert.Empty(t, page.Items)
	assert.Equal(t, 15, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 7, page.PageIndex)
	assert.Zero(t, page.StartIndex)
	assert.Zero(t, page.EndIndex)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestPaginate_GuardsDegenerateInputs(t *testing.T) {
	p := ComputeProjection(makeRecords(5), "")

	// Negative page index floors to 0.
	page := Paginate(p, -3, 10)
	assert.Equal(t, 0, page.PageIndex)
	assert.Len(t, page.Items, 5)

	// Non-positive page size falls back to the default.
	page = Paginate(p, 0, 0)
	assert.Equal(t, DefaultPageSize, page.PageSize)
}

func TestPaginate_ExactMultipleOfPageSize(t *testing.T) {
	p := ComputeProjection(makeRecords(40), "")

	page := Paginate(p, 0, 20)
	assert.Equal(t, 2, page.TotalPages)

	last := Paginate(p, 1, 20)
	assert.Len(t, last.Items, 20)
	assert.False(t, last.HasNext)
}
