package goorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefResolvesModelAttrString(t *testing.T) {
	meta := NewModel("RelTestModel", "rel_test")
	col := meta.Col("widget_id")

	r := Ref("RelTestModel.widget_id")
	resolved, err := r.resolve()
	assert.NoError(t, err)
	assert.Same(t, col, resolved)

	// memoized: a second resolve returns the same column without
	// re-querying the registry.
	again, err := r.resolve()
	assert.NoError(t, err)
	assert.Same(t, resolved, again)
}

func TestRefUnknownModelIsUnresolvedReference(t *testing.T) {
	r := Ref("NoSuchModel.attr")
	_, err := r.resolve()
	assert.Error(t, err)
	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, UnresolvedReference, gerr.Kind)
}

func TestToManyAndManyToManyAreReadOnly(t *testing.T) {
	tm := NewToMany("Model.my", "Other.their")
	var gerr *Error
	err := tm.Set(nil, nil)
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, ReadOnlyRelationship, gerr.Kind)

	mtm := NewManyToMany("Model.my", "Join.myJoin", "Join.otherJoin", "Other.their")
	err = mtm.Set(nil, nil)
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, ReadOnlyRelationship, gerr.Kind)
}

func TestColumnDedupByIdentityPrefersMostDerived(t *testing.T) {
	base := NewModel("DedupBase", "dedup_base")
	baseCol := base.Col("value")

	derived := NewModel("DedupDerived", "dedup_derived")
	derived.Inherit(base)
	derivedCol := derived.Col("value", Primary())

	assert.NotSame(t, baseCol, derivedCol)
	assert.Len(t, derived.Columns, 1)
	assert.Same(t, derivedCol, derived.Columns[0])
	assert.True(t, derived.Columns[0].Primary)
}
