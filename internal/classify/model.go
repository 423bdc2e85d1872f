package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

// DefaultThreshold is the confidence below which a prediction degrades to
// the fallback category.
const DefaultThreshold = 0.40

// artifactVersion guards against loading artifacts written by an
// incompatible build.
const artifactVersion = 1

// classData is the trained state for one category.
type classData struct {
	TokenLogProb  map[string]float64 `json:"token_log_prob"`
	Name          string             `json:"name"`
	LogPrior      float64            `json:"log_prior"`
	UnseenLogProb float64            `json:"unseen_log_prob"`
}

// modelArtifact is the on-disk JSON representation of a trained model.
type modelArtifact struct {
	TrainedAt  time.Time   `json:"trained_at"`
	Vocabulary []string    `json:"vocabulary"`
	Classes    []classData `json:"classes"`
	Version    int         `json:"version"`
	Accuracy   float64     `json:"accuracy"`
	Threshold  float64     `json:"threshold"`
}

// Classifier is a trained, read-only naive-Bayes category model. It is safe
// for unsynchronized concurrent use: nothing is mutated after construction.
type Classifier struct {
	vocab     map[string]struct{}
	classes   []classData
	accuracy  float64
	threshold float64
	trainedAt time.Time
}

// LoadModel reads a trained model artifact from disk. A missing or corrupt
// artifact is an initialization error the caller should treat as fatal.
func LoadModel(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrModelCorrupt, err)
	}

	return newFromArtifact(&artifact)
}

func newFromArtifact(artifact *modelArtifact) (*Classifier, error) {
	if artifact.Version != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", common.ErrModelCorrupt, artifact.Version)
	}
	if len(artifact.Classes) == 0 || len(artifact.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty model", common.ErrModelCorrupt)
	}

	vocab := make(map[string]struct{}, len(artifact.Vocabulary))
	for _, w := range artifact.Vocabulary {
		vocab[w] = struct{}{}
	}

	// Stable class order makes tie-breaks deterministic.
	classes := make([]classData, len(artifact.Classes))
	copy(classes, artifact.Classes)
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })

	threshold := artifact.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Classifier{
		vocab:     vocab,
		classes:   classes,
		threshold: threshold,
		accuracy:  artifact.Accuracy,
		trainedAt: artifact.TrainedAt,
	}, nil
}

// Save writes the model artifact as JSON, creating parent directories as
// needed.
func (c *Classifier) Save(path string) error {
	artifact := c.artifact()

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	return nil
}

func (c *Classifier) artifact() *modelArtifact {
	vocab := make([]string, 0, len(c.vocab))
	for w := range c.vocab {
		vocab = append(vocab, w)
	}
	sort.Strings(vocab)

	return &modelArtifact{
		Version:    artifactVersion,
		TrainedAt:  c.trainedAt,
		Accuracy:   c.accuracy,
		Threshold:  c.threshold,
		Vocabulary: vocab,
		Classes:    c.classes,
	}
}

// Accuracy returns the holdout accuracy recorded at training time.
func (c *Classifier) Accuracy() float64 { return c.accuracy }

// Threshold returns the confidence threshold below which predictions fall
// back to the fallback category.
func (c *Classifier) Threshold() float64 { return c.threshold }

// Classes returns the category names the model can predict, sorted.
func (c *Classifier) Classes() []string {
	names := make([]string, len(c.classes))
	for i, cd := range c.classes {
		names[i] = cd.Name
	}
	return names
}

// Classify predicts a category for the given transaction text. It never
// fails: empty or unrecognized input, and predictions below the confidence
// threshold, degrade to the fallback category with zero confidence.
func (c *Classifier) Classify(description, merchant string) model.ClassificationResult {
	ranked, wordCount := c.rank(description, merchant)
	if len(ranked) == 0 {
		return model.ClassificationResult{Category: config.FallbackCategory, Confidence: 0}
	}

	best := ranked[0]
	confidence := penalizeShortInput(best.Confidence, wordCount)

	if confidence < c.threshold {
		return model.ClassificationResult{Category: config.FallbackCategory, Confidence: 0}
	}
	return model.ClassificationResult{Category: best.Category, Confidence: confidence}
}

// TopN returns up to n predictions ranked by confidence. Unlike Classify the
// results are not subject to the fallback threshold; callers use this for
// inspection, not for labeling.
func (c *Classifier) TopN(description, merchant string, n int) []model.ClassificationResult {
	ranked, _ := c.rank(description, merchant)
	if len(ranked) == 0 {
		return []model.ClassificationResult{{Category: config.FallbackCategory, Confidence: 0}}
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// rank scores every class against the input and returns the normalized
// posteriors in descending order, along with the feature word count.
func (c *Classifier) rank(description, merchant string) ([]model.ClassificationResult, int) {
	text := combineText(description, merchant)
	tokens := tokenize(text)

	known := tokens[:0:0]
	for _, tok := range tokens {
		if _, ok := c.vocab[tok]; ok {
			known = append(known, tok)
		}
	}
	if len(known) == 0 {
		return nil, len(tokens)
	}

	scores := make([]float64, len(c.classes))
	for i, cd := range c.classes {
		score := cd.LogPrior
		for _, tok := range known {
			if lp, ok := cd.TokenLogProb[tok]; ok {
				score += lp
			} else {
				score += cd.UnseenLogProb
			}
		}
		scores[i] = score
	}

	// Log-sum-exp normalization to posterior probabilities.
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	var total float64
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		total += probs[i]
	}

	ranked := make([]model.ClassificationResult, len(c.classes))
	for i, cd := range c.classes {
		ranked[i] = model.ClassificationResult{
			Category:   cd.Name,
			Confidence: probs[i] / total,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	return ranked, len(tokens)
}

// penalizeShortInput discounts confidence for very short inputs, which the
// model tends to overcommit on.
func penalizeShortInput(confidence float64, wordCount int) float64 {
	switch {
	case wordCount <= 1:
		return confidence * 0.7
	case wordCount == 2:
		return confidence * 0.85
	default:
		return confidence
	}
}
