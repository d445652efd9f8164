package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	apperrors "github.com/novahq/nova-dashboard/internal/errors"
)

func namedRecords(count int) []dataset.Record {
	records := make([]dataset.Record, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, dataset.Record{
			"name": dataset.String(fmt.Sprintf("person-%03d", i+1)),
		})
	}
	return records
}

func TestViewController_Defaults(t *testing.T) {
	ctrl := NewViewController()

	state := ctrl.State()
	assert.Equal(t, dataset.ModeProfiles, state.Mode)
	assert.Empty(t, state.Query)
	assert.Zero(t, state.PageIndex)
	assert.Equal(t, 10, state.PageSize)
}

func TestViewController_SetMode_ResetsQueryAndPageKeepsPageSize(t *testing.T) {
	ctrl := NewViewController()
	require.NoError(t, ctrl.SetPageSize(50))
	ctrl.SetQuery("smith")
	ctrl.SetPageIndex(3)

	require.NoError(t, ctrl.SetMode(dataset.ModeCards))

	state := ctrl.State()
	assert.Equal(t, dataset.ModeCards, state.Mode)
	assert.Empty(t, state.Query)
	assert.Zero(t, state.PageIndex)
	assert.Equal(t, 50, state.PageSize)
}

func TestViewController_SetMode_SameModeIsNoOp(t *testing.T) {
	ctrl := NewViewController()
	ctrl.SetQuery("smith")
	ctrl.SetPageIndex(2)

	require.NoError(t, ctrl.SetMode(dataset.ModeProfiles))

	state := ctrl.State()
	assert.Equal(t, "smith", state.Query)
	assert.Equal(t, 2, state.PageIndex)
}

func TestViewController_SetMode_RejectsUnknown(t *testing.T) {
	ctrl := NewViewController()

	err := ctrl.SetMode(dataset.Mode("invoices"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestViewController_SetQuery_StoredVerbatimAndResetsPage(t *testing.T) {
	ctrl := NewViewController()
	ctrl.SetPageIndex(4)

	ctrl.SetQuery("  SMITH ")

	state := ctrl.State()
	assert.Equal(t, "  SMITH ", state.Query)
	assert.Zero(t, state.PageIndex)
}

func TestViewController_ClearQuery(t *testing.T) {
	ctrl := NewViewController()
	ctrl.SetQuery("smith")
	ctrl.SetPageIndex(1)

	ctrl.ClearQuery()

	state := ctrl.State()
	assert.Empty(t, state.Query)
	assert.Zero(t, state.PageIndex)
}

func TestViewController_SetPageIndex_FloorsNegative(t *testing.T) {
	ctrl := NewViewController()

	ctrl.SetPageIndex(-5)
	assert.Zero(t, ctrl.State().PageIndex)

	// No upper clamp: the projection can shrink under a stored index.
	ctrl.SetPageIndex(9000)
	assert.Equal(t, 9000, ctrl.State().PageIndex)
}

func TestViewController_SetPageSize(t *testing.T) {
	ctrl := NewViewController()
	ctrl.SetPageIndex(2)

	require.NoError(t, ctrl.SetPageSize(20))
	state := ctrl.State()
	assert.Equal(t, 20, state.PageSize)
	assert.Zero(t, state.PageIndex)

	err := ctrl.SetPageSize(25)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 20, ctrl.State().PageSize)
}

func TestViewController_Project_AppliesFilterAndWindow(t *testing.T) {
	ctrl := NewViewController()
	ctrl.SetQuery("person-01")
	// person-010 through person-019 match, ten records.
	page := ctrl.Project(namedRecords(30))

	assert.Equal(t, 10, page.TotalCount)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 1, page.TotalPages)
}

func TestViewRegistry_ForAndDrop(t *testing.T) {
	registry := NewViewRegistry()

	ctrl := registry.For("session-a")
	require.NotNil(t, ctrl)
	assert.Same(t, ctrl, registry.For("session-a"), "same session gets the same controller")
	assert.NotSame(t, ctrl, registry.For("session-b"), "sessions are isolated")

	ctrl.SetQuery("smith")
	registry.Drop("session-a")
	assert.Empty(t, registry.For("session-a").State().Query, "dropped sessions start over")

	// Dropping an unknown session is harmless.
	registry.Drop("never-seen")
}
