package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkenc/transpose/node"
)

func dummyTagsList(n int) []node.EncodedTag {
	tags := make([]node.EncodedTag, n)
	for i := range tags {
		tags[i] = node.EncodedTag{Node: node.NodeId{Tag: uint32(i + 1)}, Subtype: node.Trivial}
	}

	return tags
}

func TestCreateStateMachine_Empty(t *testing.T) {
	tagInfos := NewTagInfos(nil)
	sm := CreateStateMachine(tagInfos, nil, MaxTransition, MinCountForState)
	require.Len(t, sm, 1)
	assert.Equal(t, Invalid, sm[0].EtagIndex)
	assert.Equal(t, uint32(0), sm[0].Base)
}

func TestCreateStateMachine_WellFormed(t *testing.T) {
	// One hot destination (tag 1, many repeats) and several cold ones
	// (tags 2..5; tag 6 is decoded first and is only a source) from
	// source tag 0. Each cold destination is reached from tag 0 alone,
	// so all of them land in tag 0's private list.
	n := 7
	tagsList := dummyTagsList(n)
	tagInfos := NewTagInfos(tagsList)

	var encodedTags []int
	for i := 0; i < 20; i++ {
		encodedTags = append(encodedTags, 0, 1)
	}
	for dest := 2; dest < n; dest++ {
		encodedTags = append(encodedTags, 0, dest)
	}

	sm := CreateStateMachine(tagInfos, encodedTags, MaxTransition, MinCountForState)
	assertWellFormed(t, sm)
}

func TestCreateStateMachine_ForcesManyBlocks(t *testing.T) {
	// Enough hot destinations from one source to require interposed
	// NoOp-to-private-sub-block states (more than MaxTransition+1).
	n := 200
	tagsList := dummyTagsList(n)
	tagInfos := NewTagInfos(tagsList)

	var encodedTags []int
	for dest := 1; dest < n; dest++ {
		for i := 0; i < MinCountForState+1; i++ {
			encodedTags = append(encodedTags, 0, dest)
		}
	}

	sm := CreateStateMachine(tagInfos, encodedTags, MaxTransition, MinCountForState)
	assertWellFormed(t, sm)
}

// assertWellFormed checks spec §8's state-machine well-formedness
// property: every state with a live base reaches its children at
// offsets in [0, MaxTransition], and every such child's CanonicalSource
// points back to the state that covers it.
func assertWellFormed(t *testing.T, sm []StateInfo) {
	t.Helper()

	for i, s := range sm {
		if s.Base == Invalid {
			continue
		}
		for j := uint32(0); j <= MaxTransition; j++ {
			childPos := s.Base + j
			if childPos >= uint32(len(sm)) {
				break
			}
			child := sm[childPos]
			assert.Equal(t, uint32(i), child.CanonicalSource,
				"state %d's child at offset %d should have canonical_source %d", i, j, i)
		}
	}
}
