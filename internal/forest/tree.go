package forest

import (
	"fmt"
	"math/rand"
	"sort"
)

const leafNode = -1

// Node is either a split (Left/Right set) or a leaf carrying a class distribution
type Node struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t"`
	Left      int       `json:"l"`
	Right     int       `json:"r"`
	Dist      []float64 `json:"d,omitempty"`
}

// Tree stores its nodes flattened, the root is Nodes[0]
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t Tree) leaf(row []float64) ([]float64, error) {
	if len(t.Nodes) == 0 {
		return nil, fmt.Errorf("empty tree")
	}
	i := 0
	// a well formed tree reaches a leaf in at most len(Nodes) steps
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[i]
		if n.Left == leafNode {
			return n.Dist, nil
		}
		if n.Feature < 0 || n.Feature >= len(row) {
			return nil, fmt.Errorf("node %d splits on feature %d out of range", i, n.Feature)
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
		if i <= 0 || i >= len(t.Nodes) {
			return nil, fmt.Errorf("node index %d out of range", i)
		}
	}
	return nil, fmt.Errorf("tree does not terminate")
}

type builder struct {
	x        [][]float64
	y        []int
	classes  int
	mtry     int
	minSplit int
	maxDepth int
	rng      *rand.Rand
	nodes    []Node
}

func (b *builder) bootstrap(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = b.rng.Intn(n)
	}
	return idx
}

func (b *builder) build(idx []int) Tree {
	b.nodes = make([]Node, 0)
	b.grow(idx, 0)
	return Tree{Nodes: b.nodes}
}

// grow appends the subtree for idx and returns its node index
func (b *builder) grow(idx []int, depth int) int {
	self := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: leafNode, Right: leafNode})

	counts := b.counts(idx)
	if len(idx) < b.minSplit || isPure(counts) || (b.maxDepth > 0 && depth >= b.maxDepth) {
		b.nodes[self].Dist = distribution(counts, len(idx))
		return self
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		b.nodes[self].Dist = distribution(counts, len(idx))
		return self
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[self] = Node{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return self
}

// bestSplit searches mtry random features first and falls back to the remaining ones when
// none of them can separate the samples
func (b *builder) bestSplit(idx []int, counts []int) (int, float64, bool) {
	order := b.rng.Perm(len(b.x[0]))
	parent := gini(counts, len(idx))

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	for k, feature := range order {
		if k >= b.mtry && bestFeature >= 0 {
			break
		}
		threshold, impurity, ok := b.splitOn(idx, feature)
		if !ok {
			continue
		}
		if gain := parent - impurity; gain > bestGain {
			bestFeature, bestThreshold, bestGain = feature, threshold, gain
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// splitOn finds the threshold on feature with the lowest weighted child Gini impurity
func (b *builder) splitOn(idx []int, feature int) (float64, float64, bool) {
	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.Slice(sorted, func(i, j int) bool {
		return b.x[sorted[i]][feature] < b.x[sorted[j]][feature]
	})

	left := make([]int, b.classes)
	right := b.counts(sorted)
	n := len(sorted)

	bestImpurity, bestThreshold, found := 0.0, 0.0, false
	for k := 0; k < n-1; k++ {
		c := b.y[sorted[k]]
		left[c]++
		right[c]--

		v, next := b.x[sorted[k]][feature], b.x[sorted[k+1]][feature]
		if v == next {
			continue
		}
		nl, nr := k+1, n-k-1
		impurity := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(n)
		if !found || impurity < bestImpurity {
			bestImpurity = impurity
			bestThreshold = v + (next-v)/2
			found = true
		}
	}
	return bestThreshold, bestImpurity, found
}

func (b *builder) counts(idx []int) []int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func distribution(counts []int, n int) []float64 {
	dist := make([]float64, len(counts))
	if n == 0 {
		return dist
	}
	for c, k := range counts {
		dist[c] = float64(k) / float64(n)
	}
	return dist
}
