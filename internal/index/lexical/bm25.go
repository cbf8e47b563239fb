// Package lexical implements the sparse candidate source: Okapi BM25
// term weighting over the tokenized course corpus.
package lexical

import (
	"math"
	"sort"

	"github.com/campuskit/courserag/internal/domain/search/result"
)

// Okapi BM25 parameters: k1 controls term-frequency saturation, b controls
// document-length normalization.
const (
	defaultK1 = 1.5
	defaultB  = 0.75
)

// Index holds the read-only term statistics built over the ordinal space.
// Like the vector index it is built once and never mutated, so concurrent
// Search calls are safe without locking.
type Index struct {
	k1, b  float64
	termTF []map[string]int // per-document term frequencies
	docLen []int
	avgLen float64
	df     map[string]int // document frequency per term
}

// New builds a BM25 index over the given document texts; slice order
// defines the ordinal space.
func New(texts []string) *Index {
	ix := &Index{
		k1:     defaultK1,
		b:      defaultB,
		termTF: make([]map[string]int, len(texts)),
		docLen: make([]int, len(texts)),
		df:     make(map[string]int),
	}

	var totalLen int
	for i, text := range texts {
		terms := Tokenize(text)
		tf := make(map[string]int, len(terms))
		for _, t := range terms {
			tf[t]++
		}
		ix.termTF[i] = tf
		ix.docLen[i] = len(terms)
		totalLen += len(terms)
		for t := range tf {
			ix.df[t]++
		}
	}
	if len(texts) > 0 {
		ix.avgLen = float64(totalLen) / float64(len(texts))
	}
	return ix
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.termTF) }

// Search tokenizes the query and returns up to poolSize candidates with a
// positive BM25 score, ordered by descending score with ties broken by
// ascending ordinal. No term overlap yields an empty list; it never fails.
func (ix *Index) Search(query string, poolSize int) []result.Candidate {
	terms := Tokenize(query)
	if len(terms) == 0 || len(ix.termTF) == 0 {
		return nil
	}

	n := float64(len(ix.termTF))
	var candidates []result.Candidate
	for ordinal, tf := range ix.termTF {
		var score float64
		for _, term := range terms {
			freq := tf[term]
			if freq == 0 {
				continue
			}
			df := float64(ix.df[term])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			norm := 1 - ix.b + ix.b*float64(ix.docLen[ordinal])/ix.avgLen
			score += idf * float64(freq) * (ix.k1 + 1) / (float64(freq) + ix.k1*norm)
		}
		if score > 0 {
			candidates = append(candidates, result.Candidate{Ordinal: ordinal, Score: score})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Ordinal < candidates[b].Ordinal
	})

	if len(candidates) > poolSize {
		candidates = candidates[:poolSize]
	}
	return candidates
}
