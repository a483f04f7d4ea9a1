package ml

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
)

// RegressionTree es un árbol de regresión con nodos en un slice plano e
// hijos referenciados por índice, serializable a JSON.
type RegressionTree struct {
	nodes []treeNode
}

type treeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

var (
	ErrNotFitted       = errors.New("tree not fitted")
	ErrFeatureMismatch = errors.New("feature vector does not match trained layout")
)

// Fit ajusta el árbol minimizando la varianza ponderada de los hijos en cada
// división. El umbral candidato por columna es la mediana de sus valores.
func (t *RegressionTree) Fit(features [][]float64, labels []float64, maxDepth, minLeaf int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}
	if maxDepth <= 0 {
		maxDepth = 6
	}
	if minLeaf <= 0 {
		minLeaf = 5
	}

	t.nodes = buildRegressionNode(features, labels, 0, maxDepth, minLeaf)
	return nil
}

// Predict recorre el árbol y devuelve el valor de la hoja alcanzada.
func (t *RegressionTree) Predict(features []float64) (float64, error) {
	if len(t.nodes) == 0 {
		return 0, ErrNotFitted
	}
	idx := 0
	for {
		node := t.nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, ErrFeatureMismatch
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// FeatureCount devuelve el índice de columna más alto referenciado + 1, para
// validar que un esquema coincide con el árbol entrenado.
func (t *RegressionTree) FeatureCount() int {
	max := -1
	for _, node := range t.nodes {
		if !node.IsLeaf && node.FeatureIdx > max {
			max = node.FeatureIdx
		}
	}
	return max + 1
}

func (t *RegressionTree) MarshalJSON() ([]byte, error) {
	if len(t.nodes) == 0 {
		return nil, ErrNotFitted
	}
	return json.Marshal(t.nodes)
}

func (t *RegressionTree) UnmarshalJSON(data []byte) error {
	var nodes []treeNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return err
	}
	t.nodes = nodes
	return nil
}

func buildRegressionNode(features [][]float64, labels []float64, depth, maxDepth, minLeaf int) []treeNode {
	leaf := treeNode{
		FeatureIdx: -1,
		LeftChild:  -1,
		RightChild: -1,
		Value:      mean(labels),
		IsLeaf:     true,
	}
	if depth >= maxDepth || len(labels) < 2*minLeaf || variance(labels) == 0 {
		return []treeNode{leaf}
	}

	bestFeature, threshold, ok := findBestRegressionSplit(features, labels, minLeaf)
	if !ok {
		return []treeNode{leaf}
	}

	leftX, leftY, rightX, rightY := partition(features, labels, bestFeature, threshold)
	if len(leftY) < minLeaf || len(rightY) < minLeaf {
		return []treeNode{leaf}
	}

	leftNodes := buildRegressionNode(leftX, leftY, depth+1, maxDepth, minLeaf)
	rightNodes := buildRegressionNode(rightX, rightY, depth+1, maxDepth, minLeaf)

	// Los subárboles llegan con índices locales; se reubican al offset que
	// ocuparán en el slice final.
	leftOffset := 1
	rightOffset := 1 + len(leftNodes)
	shiftChildren(leftNodes, leftOffset)
	shiftChildren(rightNodes, rightOffset)

	root := treeNode{
		FeatureIdx: bestFeature,
		Threshold:  threshold,
		LeftChild:  leftOffset,
		RightChild: rightOffset,
		Value:      mean(labels),
		IsLeaf:     false,
	}

	nodes := make([]treeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, root)
	nodes = append(nodes, leftNodes...)
	nodes = append(nodes, rightNodes...)
	return nodes
}

func shiftChildren(nodes []treeNode, offset int) {
	for i := range nodes {
		if nodes[i].IsLeaf {
			continue
		}
		nodes[i].LeftChild += offset
		nodes[i].RightChild += offset
	}
}

func findBestRegressionSplit(features [][]float64, labels []float64, minLeaf int) (int, float64, bool) {
	featureCount := len(features[0])
	bestFeature := -1
	bestThreshold := 0.0
	bestScore := math.MaxFloat64

	for featureIdx := 0; featureIdx < featureCount; featureIdx++ {
		values := make([]float64, len(features))
		for i := range features {
			values[i] = features[i][featureIdx]
		}
		threshold := median(values)

		var leftY, rightY []float64
		for i, row := range features {
			if row[featureIdx] <= threshold {
				leftY = append(leftY, labels[i])
			} else {
				rightY = append(rightY, labels[i])
			}
		}
		if len(leftY) < minLeaf || len(rightY) < minLeaf {
			continue
		}
		score := weightedVariance(leftY, rightY)
		if score < bestScore {
			bestScore = score
			bestFeature = featureIdx
			bestThreshold = threshold
		}
	}
	if bestFeature == -1 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

func partition(features [][]float64, labels []float64, featureIdx int, threshold float64) ([][]float64, []float64, [][]float64, []float64) {
	var leftX, rightX [][]float64
	var leftY, rightY []float64
	for i, row := range features {
		if row[featureIdx] <= threshold {
			leftX = append(leftX, row)
			leftY = append(leftY, labels[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, labels[i])
		}
	}
	return leftX, leftY, rightX, rightY
}

func weightedVariance(left, right []float64) float64 {
	total := float64(len(left) + len(right))
	return (float64(len(left))/total)*variance(left) + (float64(len(right))/total)*variance(right)
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
