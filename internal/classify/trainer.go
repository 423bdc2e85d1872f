package classify

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/config"
)

// Sample is one labeled training example.
type Sample struct {
	Description string
	Merchant    string
	Category    string
}

// TrainOptions control offline training. Zero values select the defaults.
type TrainOptions struct {
	// ProgressWriter receives a training progress bar; nil disables it.
	ProgressWriter io.Writer
	// Iterations is the number of shuffled train/holdout splits to try; the
	// model with the best holdout accuracy wins.
	Iterations int
	// MinSamplesPerClass drops under-represented categories from training.
	MinSamplesPerClass int
	// HoldoutFraction of samples reserved for accuracy evaluation. Zero
	// evaluates on the training set itself.
	HoldoutFraction float64
	// Threshold is the confidence threshold stored in the artifact.
	Threshold float64
	// Seed is the base random seed; iteration i uses Seed+i.
	Seed int64
}

func (o *TrainOptions) applyDefaults() {
	if o.Iterations <= 0 {
		o.Iterations = 5
	}
	if o.MinSamplesPerClass <= 0 {
		o.MinSamplesPerClass = 3
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
}

// TrainReport summarizes a training run.
type TrainReport struct {
	Rows       int
	Classes    int
	Iterations int
	Accuracy   float64
}

// Train fits a naive-Bayes model to the labeled corpus. Corpus labels must
// be valid expense categories; an unknown label is a configuration defect,
// not a row to skip silently.
func Train(samples []Sample, taxonomy *config.Taxonomy, opts TrainOptions) (*Classifier, *TrainReport, error) {
	opts.applyDefaults()

	usable, err := filterSamples(samples, taxonomy, opts.MinSamplesPerClass)
	if err != nil {
		return nil, nil, err
	}
	if len(usable) == 0 {
		return nil, nil, common.ErrEmptyCorpus
	}

	var bar *progressbar.ProgressBar
	if opts.ProgressWriter != nil {
		bar = progressbar.NewOptions(opts.Iterations,
			progressbar.OptionSetWriter(opts.ProgressWriter),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Training model..."),
		)
	}

	var best *Classifier
	bestAccuracy := -1.0

	for i := 0; i < opts.Iterations; i++ {
		rng := rand.New(rand.NewSource(opts.Seed + int64(i)))

		shuffled := make([]Sample, len(usable))
		copy(shuffled, usable)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		holdout := int(float64(len(shuffled)) * opts.HoldoutFraction)
		train, eval := shuffled[holdout:], shuffled[:holdout]
		if len(eval) == 0 {
			eval = train
		}

		candidate := fit(train, opts.Threshold)
		accuracy := evaluate(candidate, eval)
		candidate.accuracy = accuracy

		if accuracy > bestAccuracy {
			bestAccuracy = accuracy
			best = candidate
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	classes := make(map[string]bool)
	for _, s := range usable {
		classes[s.Category] = true
	}

	report := &TrainReport{
		Rows:       len(usable),
		Classes:    len(classes),
		Iterations: opts.Iterations,
		Accuracy:   bestAccuracy,
	}
	return best, report, nil
}

// filterSamples validates labels against the taxonomy, drops rows with no
// usable text, and removes classes with too few examples.
func filterSamples(samples []Sample, taxonomy *config.Taxonomy, minPerClass int) ([]Sample, error) {
	counts := make(map[string]int)
	kept := make([]Sample, 0, len(samples))

	for _, s := range samples {
		label := strings.TrimSpace(s.Category)
		if label == "" {
			continue
		}
		if !taxonomy.IsExpenseCategory(label) {
			return nil, fmt.Errorf("%w: corpus label %q", common.ErrUnknownCategory, label)
		}
		if combineText(s.Description, s.Merchant) == "" {
			continue
		}
		s.Category = label
		kept = append(kept, s)
		counts[label]++
	}

	usable := kept[:0:0]
	for _, s := range kept {
		if counts[s.Category] >= minPerClass {
			usable = append(usable, s)
		}
	}
	return usable, nil
}

// fit estimates Laplace-smoothed multinomial naive-Bayes parameters.
func fit(train []Sample, threshold float64) *Classifier {
	vocab := make(map[string]struct{})
	tokenCounts := make(map[string]map[string]int) // class -> token -> count
	totalTokens := make(map[string]int)
	docCounts := make(map[string]int)

	for _, s := range train {
		tokens := tokenize(combineText(s.Description, s.Merchant))
		docCounts[s.Category]++
		if tokenCounts[s.Category] == nil {
			tokenCounts[s.Category] = make(map[string]int)
		}
		for _, tok := range tokens {
			vocab[tok] = struct{}{}
			tokenCounts[s.Category][tok]++
			totalTokens[s.Category]++
		}
	}

	vocabSize := len(vocab)
	classes := make([]classData, 0, len(docCounts))
	for name, docs := range docCounts {
		denom := float64(totalTokens[name] + vocabSize)
		cd := classData{
			Name:          name,
			LogPrior:      math.Log(float64(docs) / float64(len(train))),
			UnseenLogProb: math.Log(1.0 / denom),
			TokenLogProb:  make(map[string]float64, len(tokenCounts[name])),
		}
		for tok, count := range tokenCounts[name] {
			cd.TokenLogProb[tok] = math.Log(float64(count+1) / denom)
		}
		classes = append(classes, cd)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })

	return &Classifier{
		vocab:     vocab,
		classes:   classes,
		threshold: threshold,
		trainedAt: time.Now().UTC(),
	}
}

// evaluate computes raw prediction accuracy over eval, ignoring the fallback
// threshold so the metric reflects the model itself.
func evaluate(c *Classifier, eval []Sample) float64 {
	if len(eval) == 0 {
		return 0
	}
	correct := 0
	for _, s := range eval {
		ranked, _ := c.rank(s.Description, s.Merchant)
		if len(ranked) > 0 && ranked[0].Category == s.Category {
			correct++
		}
	}
	return float64(correct) / float64(len(eval))
}

// LoadCorpus reads a labeled training corpus from a CSV file with a
// description,merchant,category header.
func LoadCorpus(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	return ReadCorpus(f)
}

// ReadCorpus parses CSV corpus data from r.
func ReadCorpus(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}
	if len(header) != 3 || strings.ToLower(header[0]) != "description" ||
		strings.ToLower(header[1]) != "merchant" || strings.ToLower(header[2]) != "category" {
		return nil, fmt.Errorf("corpus must have description,merchant,category columns, got %v", header)
	}

	var samples []Sample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row: %w", err)
		}
		samples = append(samples, Sample{
			Description: record[0],
			Merchant:    record[1],
			Category:    record[2],
		})
	}
	return samples, nil
}
