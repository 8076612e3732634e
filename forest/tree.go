// Package forest evaluates tree ensembles exported in the node-array layout
// (children_left, children_right, feature, threshold, value).
package forest

import (
	"errors"
	"fmt"
)

// leafNode marks a node without children.
const leafNode = -1

// Tree is a single binary decision tree. Node 0 is the root. A sample goes
// left when x[Feature[n]] <= Threshold[n].
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func (t *Tree) nodeCount() int { return len(t.ChildrenLeft) }

// validate checks that every array has one entry per node, that split
// features are inside the feature vector, and that children always point
// forward so evaluation terminates.
func (t *Tree) validate(nFeatures, valueWidth int) error {
	n := t.nodeCount()
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length (left=%d right=%d feature=%d threshold=%d value=%d)",
			n, len(t.ChildrenRight), len(t.Feature), len(t.Threshold), len(t.Value))
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafNode || right == leafNode {
			if left != right {
				return fmt.Errorf("node %d has a single child", i)
			}
			if len(t.Value[i]) != valueWidth {
				return fmt.Errorf("leaf %d has %d values, want %d", i, len(t.Value[i]), valueWidth)
			}
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has out-of-order children (%d, %d)", i, left, right)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d, want [0,%d)", i, f, nFeatures)
		}
	}
	return nil
}

// leaf walks the tree for one feature row and returns the leaf index.
func (t *Tree) leaf(row []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if row[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}
