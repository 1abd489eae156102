// Package classifier suggests an expense category for a free-text
// description. The model is a multinomial naive Bayes classifier over
// tf-idf features, fitted once at startup on a small fixed corpus and
// read-only afterwards, so a single Model is safely shared by all
// requests.
//
// Predictions are best-effort suggestions, not correctness-bearing:
// the only guarantees are that training sentences map to their own
// label and that any nonempty input maps to one of the known labels.
package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// stopwords are dropped before feature extraction so that filler terms
// shared across categories carry no weight.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "at": {}, "for": {}, "from": {},
	"in": {}, "is": {}, "my": {}, "of": {}, "on": {}, "or": {},
	"the": {}, "to": {}, "with": {},
}

// tokenize lowercases, strips non-alphanumerics and drops stopwords.
func tokenize(s string) []string {
	s = nonWord.ReplaceAllString(strings.ToLower(s), " ")
	var tokens []string
	for _, t := range strings.Fields(s) {
		if _, stop := stopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Model holds the fitted classifier. Immutable after Train.
type Model struct {
	labels   []string
	vocab    map[string]int
	idf      []float64
	logPrior []float64
	// logCond[label][term] is the log conditional probability of a term
	// given the label, Laplace-smoothed over tf-idf mass.
	logCond [][]float64
}

// Train fits the model on the built-in corpus. Training is fully
// deterministic: the vocabulary is sorted and ties at prediction time
// break by fixed label order.
func Train() *Model {
	return train(corpus, Labels)
}

func train(examples []trainingExample, labels []string) *Model {
	m := &Model{
		labels: labels,
		vocab:  make(map[string]int),
	}

	labelIdx := make(map[string]int, len(labels))
	for i, l := range labels {
		labelIdx[l] = i
	}

	// Tokenize once, collect document frequencies.
	docs := make([][]string, len(examples))
	df := make(map[string]int)
	for i, ex := range examples {
		docs[i] = tokenize(ex.Text)
		seen := make(map[string]struct{})
		for _, t := range docs[i] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	for i, t := range terms {
		m.vocab[t] = i
	}

	// Smoothed idf, as in the usual tf-idf formulation.
	n := float64(len(examples))
	m.idf = make([]float64, len(terms))
	for t, i := range m.vocab {
		m.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	// Accumulate per-label tf-idf mass per term.
	mass := make([][]float64, len(labels))
	for i := range mass {
		mass[i] = make([]float64, len(terms))
	}
	counts := make([]int, len(labels))
	for i, ex := range examples {
		li := labelIdx[ex.Label]
		counts[li]++
		for _, t := range docs[i] {
			ti := m.vocab[t]
			mass[li][ti] += m.idf[ti]
		}
	}

	m.logPrior = make([]float64, len(labels))
	m.logCond = make([][]float64, len(labels))
	vocabSize := float64(len(terms))
	for li := range labels {
		m.logPrior[li] = math.Log(float64(counts[li]) / n)

		var total float64
		for _, w := range mass[li] {
			total += w
		}
		m.logCond[li] = make([]float64, len(terms))
		for ti, w := range mass[li] {
			// Laplace smoothing with alpha=1.
			m.logCond[li][ti] = math.Log((w + 1) / (total + vocabSize))
		}
	}

	return m
}

// Predict maps a description to a category label. The second return is
// false when the input is empty or whitespace-only (no prediction);
// otherwise the label is always one of Labels.
func (m *Model) Predict(description string) (string, bool) {
	if strings.TrimSpace(description) == "" {
		return "", false
	}

	tokens := tokenize(description)

	best := 0
	bestScore := math.Inf(-1)
	for li := range m.labels {
		score := m.logPrior[li]
		for _, t := range tokens {
			ti, ok := m.vocab[t]
			if !ok {
				continue // out-of-vocabulary terms carry no signal
			}
			score += m.logCond[li][ti]
		}
		if score > bestScore {
			bestScore = score
			best = li
		}
	}
	return m.labels[best], true
}
