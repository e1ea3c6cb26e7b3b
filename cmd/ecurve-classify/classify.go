package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gobics/ecurve-go/internal/codon"
	"github.com/gobics/ecurve-go/internal/dna"
	"github.com/gobics/ecurve-go/internal/ecurve"
	"github.com/gobics/ecurve-go/internal/errs"
	"github.com/gobics/ecurve-go/internal/fasta"
	"github.com/gobics/ecurve-go/internal/matrixio"
	"github.com/gobics/ecurve-go/internal/protein"
	"github.com/gobics/ecurve-go/internal/resultswriter"
	"github.com/gobics/ecurve-go/internal/streamio"
	"github.com/gobics/ecurve-go/internal/substmat"
	"github.com/gobics/ecurve-go/internal/thresholddb"
)

// classifyOpts holds the flags of the classify subcommand. This mirrors
// uproc's "uproc-prot <substmat> <db> [<input>...]"/"uproc-dna" command
// line, expressed as cobra flags (a driver concern, not a core one) instead
// of positional argument-count sniffing.
type classifyOpts struct {
	substMat    string
	fwdEcurve   string
	revEcurve   string
	format      string
	dna         bool
	codonScores string
	thresholdDB string
	mode        string
	minORFLen   int
	workers     int
	output      string
}

func newClassifyCmd() *cobra.Command {
	var o classifyOpts

	cmd := &cobra.Command{
		Use:   "classify [flags] [input.fasta]",
		Short: "Classify sequences in a FASTA/FASTQ file against an ecurve index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			log := newLogger(viper.GetBool("verbose"))
			defer log.Sync() //nolint:errcheck
			return runClassify(o, input, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.substMat, "substmat", "", "substitution matrix file (required)")
	flags.StringVar(&o.fwdEcurve, "fwd-ecurve", "", "forward ecurve file (required)")
	flags.StringVar(&o.revEcurve, "rev-ecurve", "", "reverse ecurve file (optional)")
	flags.StringVar(&o.format, "format", "binary", "ecurve storage format: plain, binary, or mmap")
	flags.BoolVar(&o.dna, "dna", false, "treat input as nucleotide sequence and run the six-frame DNA classifier")
	flags.StringVar(&o.codonScores, "codon-scores", "", "codon score matrix file (DNA mode)")
	flags.StringVar(&o.thresholdDB, "threshold-db", "", "DuckDB file of family thresholds / codon scores (optional; supplies codon scores when --codon-scores is not given, and stores them when it is)")
	flags.StringVar(&o.mode, "mode", "all", "prediction mode: all or max")
	flags.IntVar(&o.minORFLen, "min-orf-length", 0, "minimum ORF length in amino acids (DNA mode)")
	flags.IntVar(&o.workers, "workers", 0, "worker count for parallel classification (0 = CHUNK_SIZE config, then NumCPU)")
	flags.StringVar(&o.output, "output", "-", "output file (- for stdout)")

	_ = cmd.MarkFlagRequired("substmat")
	_ = cmd.MarkFlagRequired("fwd-ecurve")

	return cmd
}

func runClassify(o classifyOpts, input string, log *zap.SugaredLogger) error {
	mode, err := parseMode(o.mode)
	if err != nil {
		return err
	}

	substMatFile, closeSM, err := streamio.OpenReader(o.substMat, streamio.Auto)
	if err != nil {
		return err
	}
	defer closeSM.Close()
	mat, err := substmat.Load(substMatFile)
	if err != nil {
		return fmt.Errorf("loading substitution matrix: %w", err)
	}

	fwd, closeFwd, err := loadEcurve(o.fwdEcurve, o.format)
	if err != nil {
		return fmt.Errorf("loading forward ecurve: %w", err)
	}
	defer closeFwd()

	var rev *ecurve.Ecurve
	if o.revEcurve != "" {
		var closeRev func() error
		rev, closeRev, err = loadEcurve(o.revEcurve, o.format)
		if err != nil {
			return fmt.Errorf("loading reverse ecurve: %w", err)
		}
		defer closeRev()
	}

	alpha := fwd.Alphabet
	if alpha == nil {
		alpha = rev.Alphabet
	}

	var thresholds *thresholddb.Store
	if o.thresholdDB != "" {
		thresholds, err = thresholddb.Open(o.thresholdDB)
		if err != nil {
			return fmt.Errorf("opening threshold db: %w", err)
		}
		defer thresholds.Close()
	}

	pc := protein.New(alpha, fwd, rev, mat, mode)
	pc.SetLogger(log)

	if thresholds != nil {
		minScores, err := thresholds.FamilyThresholds()
		if err != nil {
			return fmt.Errorf("loading family thresholds: %w", err)
		}
		if len(minScores) > 0 {
			pc.Filter = func(_ string, family uint16, score float64) bool {
				min, ok := minScores[family]
				return !ok || score >= min
			}
		}
	}

	log.Infow("classifier ready", "dna", o.dna, "mode", o.mode, "fwdEcurve", o.fwdEcurve, "revEcurve", o.revEcurve)

	out, closeOut, err := openOutput(o.output)
	if err != nil {
		return err
	}
	defer closeOut()

	workers := o.workers
	if workers == 0 {
		workers = viper.GetInt("chunk_size")
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	if o.dna {
		codonScores, err := loadCodonScores(o.codonScores, thresholds)
		if err != nil {
			return err
		}
		dc := dna.New(pc, mode, o.minORFLen, codonScores)
		dc.SetLogger(log)
		return classifyDNA(dc, input, out, log)
	}
	return classifyProtein(pc, input, out, workers, log)
}

func parseMode(s string) (protein.Mode, error) {
	switch s {
	case "all", "":
		return protein.All, nil
	case "max":
		return protein.Max, nil
	default:
		return protein.All, errs.Newf(errs.InvalidArgument, "unknown mode %q (want all or max)", s)
	}
}

func loadEcurve(path, format string) (*ecurve.Ecurve, func() error, error) {
	switch format {
	case "mmap":
		mapped, err := ecurve.Mmap(path)
		if err != nil {
			return nil, nil, err
		}
		return mapped.Ecurve, mapped.Close, nil
	case "plain":
		r, closer, err := streamio.OpenReader(path, streamio.Auto)
		if err != nil {
			return nil, nil, err
		}
		defer closer.Close()
		e, err := ecurve.LoadPlain(r)
		return e, func() error { return nil }, err
	case "binary", "":
		r, closer, err := streamio.OpenReader(path, streamio.Auto)
		if err != nil {
			return nil, nil, err
		}
		defer closer.Close()
		e, err := ecurve.LoadBinary(r)
		return e, func() error { return nil }, err
	default:
		return nil, nil, errs.Newf(errs.InvalidArgument, "unknown ecurve format %q", format)
	}
}

func loadCodonScores(path string, thresholds *thresholddb.Store) ([]float64, error) {
	if path == "" {
		if thresholds != nil {
			return thresholds.CodonScores(codon.BinaryCodonCount)
		}
		return nil, nil
	}
	r, closer, err := streamio.OpenReader(path, streamio.Auto)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	m, err := matrixio.Load(r)
	if err != nil {
		return nil, fmt.Errorf("loading codon score matrix: %w", err)
	}
	canonical := make([]float64, m.Len())
	for i := 0; i < m.Len(); i++ {
		canonical[i] = m.GetFlat(i)
	}
	scores := codon.PrecomputeScores(canonical)

	if thresholds != nil {
		if err := thresholds.SetCodonScores(scores); err != nil {
			return nil, fmt.Errorf("caching codon scores: %w", err)
		}
	}
	return scores, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.IoError, "create output file "+path, err)
	}
	return f, f.Close, nil
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	r, closer, err := streamio.OpenReader(path, streamio.Auto)
	if err != nil {
		return nil, nil, err
	}
	return r, closer.Close, nil
}

func classifyProtein(pc *protein.Classifier, input string, out io.Writer, workers int, log *zap.SugaredLogger) error {
	in, closeIn, err := openInput(input)
	if err != nil {
		return err
	}
	defer closeIn()

	w := resultswriter.NewProteinWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}

	items := make(chan protein.WorkItem, 2*workers)
	go func() {
		defer close(items)
		reader := fasta.NewReader(in)
		seq := 0
		for {
			rec, ok, err := reader.Next()
			if err != nil {
				log.Warnw("fasta read error", "err", err)
				return
			}
			if !ok {
				return
			}
			items <- protein.WorkItem{Seq: seq, Header: rec.Header, Sequence: rec.Sequence}
			seq++
		}
	}()

	results := pc.ParallelClassify(items, workers)
	processed := 0
	err = protein.OrderedCollectWithProgress(results, 0, nil, func(r protein.WorkResult) error {
		if r.Err != nil {
			return r.Err
		}
		processed++
		return w.Write(r.Header, r.Preds)
	})
	if err != nil {
		return err
	}
	log.Infow("classification complete", "queries", processed)
	return w.Flush()
}

func classifyDNA(dc *dna.Classifier, input string, out io.Writer, log *zap.SugaredLogger) error {
	in, closeIn, err := openInput(input)
	if err != nil {
		return err
	}
	defer closeIn()

	w := resultswriter.NewDNAWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}

	reader := fasta.NewReader(in)
	processed := 0
	for {
		rec, ok, err := reader.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		preds, err := dc.Classify(rec.Sequence)
		if err != nil {
			return err
		}
		if err := w.Write(rec.Header, preds); err != nil {
			return err
		}
		processed++
	}
	log.Infow("classification complete", "queries", processed)
	return w.Flush()
}
