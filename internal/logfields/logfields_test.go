package logfields

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttrKeys(t *testing.T) {
	assert.Equal(t, KeyBuildID, BuildID("b1").Key)
	assert.Equal(t, KeyDocID, DocID("guides/mining").Key)
	assert.Equal(t, "guides/mining", DocID("guides/mining").Value.String())
	assert.Equal(t, int64(3), Count(3).Value.Int64())
}

func TestDuration(t *testing.T) {
	attr := Duration(1500 * time.Microsecond)
	assert.Equal(t, KeyDurationMS, attr.Key)
	assert.InDelta(t, 1.5, attr.Value.Float64(), 0.0001)
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
