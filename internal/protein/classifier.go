package protein

import (
	"go.uber.org/zap"

	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/ecurve"
	"github.com/gobics/ecurve-go/internal/scoremap"
	"github.com/gobics/ecurve-go/internal/substmat"
	"github.com/gobics/ecurve-go/internal/word"
)

// Mode selects whether Classify returns every matched family or only the
// highest-scoring one.
type Mode int

const (
	// All returns every family that matched, sorted ascending by id.
	All Mode = iota
	// Max returns only the single highest-scoring family.
	Max
)

// Prediction is one classified family and its score.
type Prediction struct {
	Family uint16
	Score  float64
}

// FilterFunc decides whether a (sequence, family, score) prediction should
// be kept. Returning false drops it.
type FilterFunc func(seq string, family uint16, score float64) bool

// Classifier scores a query sequence against one or two ecurves (forward
// and reverse reading direction) using position-specific substitution
// distances.
type Classifier struct {
	Alphabet  *alphabet.Alphabet
	FwdEcurve *ecurve.Ecurve
	RevEcurve *ecurve.Ecurve
	SubstMat  *substmat.Matrix
	Mode      Mode
	Filter    FilterFunc

	log *zap.SugaredLogger
}

// New builds a Classifier. At least one of fwd/rev must be non-nil.
func New(alpha *alphabet.Alphabet, fwd, rev *ecurve.Ecurve, mat *substmat.Matrix, mode Mode) *Classifier {
	return &Classifier{
		Alphabet:  alpha,
		FwdEcurve: fwd,
		RevEcurve: rev,
		SubstMat:  mat,
		Mode:      mode,
		log:       zap.NewNop().Sugar(),
	}
}

// SetLogger attaches a logger for per-query diagnostics. Passing nil
// restores the no-op logger; a Classifier never reaches for a package-level
// logger, so tests can inject their own (or leave the no-op default).
func (c *Classifier) SetLogger(log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c.log = log
}

// Classify scores seq and returns its matched families.
func (c *Classifier) Classify(seq string) ([]Prediction, error) {
	scores := scoremap.New()
	it := word.NewIterator(seq, c.Alphabet)

	for {
		index, fwd, rev, ok := it.Next()
		if !ok {
			break
		}

		if c.FwdEcurve != nil {
			if err := c.accumulate(scores, c.FwdEcurve, fwd, uint64(index), false); err != nil {
				return nil, err
			}
		}
		if c.RevEcurve != nil {
			if err := c.accumulate(scores, c.RevEcurve, rev, uint64(index), true); err != nil {
				return nil, err
			}
		}
	}

	preds := c.finalize(seq, scores)
	if len(preds) == 0 {
		c.log.Debugw("no family matched query", "seqLen", len(seq))
	}
	return preds, nil
}

func (c *Classifier) accumulate(scores *scoremap.Map, ec *ecurve.Ecurve, w word.Word, index uint64, reverse bool) error {
	res, err := ec.Lookup(w)
	if err != nil {
		return err
	}

	c.addMatch(scores, w, res.Lower, res.LowerFamily, index, reverse)
	if !word.Equal(res.Lower, res.Upper) {
		c.addMatch(scores, w, res.Upper, res.UpperFamily, index, reverse)
	}
	return nil
}

func (c *Classifier) addMatch(scores *scoremap.Map, query, matched word.Word, family uint16, index uint64, reverse bool) {
	dist := make([]float64, word.SuffixLen)
	substmat.AlignSuffixes(c.SubstMat, query.Suffix, matched.Suffix, dist)

	acc := scores.GetOrInsert(family, word.Len)
	Add(acc, index, dist, reverse)
}

func (c *Classifier) finalize(seq string, scores *scoremap.Map) []Prediction {
	var preds []Prediction
	scores.Each(func(family uint16, acc *scoremap.Accumulator) {
		score := Finalize(acc)
		if c.Filter != nil && !c.Filter(seq, family, score) {
			return
		}
		preds = append(preds, Prediction{Family: family, Score: score})
	})

	if c.Mode == Max {
		if len(preds) == 0 {
			return preds
		}
		best := preds[0]
		for _, p := range preds[1:] {
			if p.Score > best.Score {
				best = p
			}
		}
		return []Prediction{best}
	}

	// ALL mode reports only families with a positive score; every
	// inexact lookup contributes both its bracketing neighbours, so the
	// score map otherwise accumulates a large tail of zero/negative
	// entries that were never a real match (libecurve/src/classify.c
	// finalize_all_cb).
	kept := preds[:0]
	for _, p := range preds {
		if p.Score > 0 {
			kept = append(kept, p)
		}
	}
	return kept
}
