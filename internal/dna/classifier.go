package dna

import (
	"sort"

	"go.uber.org/zap"

	"github.com/gobics/ecurve-go/internal/protein"
)

// Prediction is a family classified from a translated ORF, carrying the
// frame and start offset of the ORF that produced its best score.
type Prediction struct {
	Family uint16
	Score  float64
	Frame  int
	Start  int
}

// Classifier translates a nucleotide sequence into ORFs across all six
// reading frames and classifies each with a protein classifier, reducing
// to the best score per family over all frames, following
// libuproc/dnaclass.c's uproc_dnaclass_classify.
type Classifier struct {
	Protein      *protein.Classifier
	Mode         protein.Mode
	MinORFLength int
	CodonScores  []float64

	log *zap.SugaredLogger
}

// New builds a Classifier. minORFLength discards translated ORFs shorter
// than that many amino acids before they reach the protein classifier.
func New(p *protein.Classifier, mode protein.Mode, minORFLength int, codonScores []float64) *Classifier {
	return &Classifier{
		Protein:      p,
		Mode:         mode,
		MinORFLength: minORFLength,
		CodonScores:  codonScores,
		log:          zap.NewNop().Sugar(),
	}
}

// SetLogger attaches a logger for per-query diagnostics, mirroring
// protein.Classifier.SetLogger; nil restores the no-op default.
func (c *Classifier) SetLogger(log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c.log = log
}

// Classify translates seq across all six frames and returns, for each
// family matched in any frame, its highest score and the frame/start that
// produced it.
func (c *Classifier) Classify(seq string) ([]Prediction, error) {
	// classify each ORF with every matching family; the per-frame Mode is
	// applied once, after reducing across frames, below.
	inner := *c.Protein
	inner.Mode = protein.All

	filter := func(orf ORF, _ string, _ int, _ float64) bool {
		return orf.Length >= c.MinORFLength
	}

	best := make(map[uint16]Prediction)
	it := NewIterator(seq, c.CodonScores, filter)
	var orfCount int
	for {
		orf, ok := it.Next()
		if !ok {
			break
		}
		orfCount++
		preds, err := inner.Classify(orf.Data)
		if err != nil {
			return nil, err
		}
		for _, p := range preds {
			cur, exists := best[p.Family]
			if !exists || p.Score > cur.Score {
				best[p.Family] = Prediction{Family: p.Family, Score: p.Score, Frame: orf.Frame, Start: orf.Start}
			}
		}
	}

	c.log.Debugw("translated ORFs classified", "orfCount", orfCount, "familyCount", len(best))

	families := make([]uint16, 0, len(best))
	for f := range best {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })

	preds := make([]Prediction, 0, len(families))
	for _, f := range families {
		preds = append(preds, best[f])
	}

	if c.Mode == protein.Max && len(preds) > 0 {
		top := preds[0]
		for _, p := range preds[1:] {
			if p.Score > top.Score {
				top = p
			}
		}
		preds = []Prediction{top}
	}
	return preds, nil
}
