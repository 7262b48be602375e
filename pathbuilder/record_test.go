package pathbuilder

import (
	"testing"

	"github.com/jsphweid/cuegrid/qnt"
	"github.com/stretchr/testify/assert"
)

func TestParamsRecordRoundTrip(t *testing.T) {
	p := squareParams()
	for _, policy := range []Termination{Count(4), Until(qnt.FromTicks(1920)), AnchorLength()} {
		gotParams, gotPolicy := FromRecord(ParamsRecord(p, policy))
		assert.Equal(t, p, gotParams)
		assert.Equal(t, policy, gotPolicy)
	}
}

func TestBuilderRecord(t *testing.T) {
	_, anchor, b := setup(t)
	assert.False(t, b.Record().Active)

	assert.NoError(t, b.Activate(Count(2)))
	r := b.Record()
	assert.True(t, r.Active)
	assert.Equal(t, uint64(anchor.ID()), r.Anchor)
	assert.Equal(t, 2, r.Params.Steps)
	assert.Len(t, r.Generated, 2)
}
