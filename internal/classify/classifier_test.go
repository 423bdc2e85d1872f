package classify

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/config"
)

// trainSeedClassifier trains a deterministic model from the embedded corpus.
func trainSeedClassifier(t *testing.T) *Classifier {
	t.Helper()

	samples, err := SeedCorpus()
	require.NoError(t, err)

	clf, report, err := Train(samples, config.DefaultTaxonomy(), TrainOptions{
		Iterations:      1,
		HoldoutFraction: 0,
	})
	require.NoError(t, err)
	require.NotZero(t, report.Rows)
	require.NotZero(t, report.Classes)

	return clf
}

func TestClassify_KnownMerchantText(t *testing.T) {
	clf := trainSeedClassifier(t)

	tests := []struct {
		name         string
		description  string
		merchant     string
		wantCategory string
	}{
		{
			name:         "grocery run with no merchant",
			description:  "Whole Foods grocery run",
			wantCategory: "Food",
		},
		{
			name:         "utility bill",
			description:  "electricity bill",
			merchant:     "Power Company",
			wantCategory: "Utilities",
		},
		{
			name:         "transit",
			description:  "bus ticket downtown",
			merchant:     "Metro",
			wantCategory: "Transport",
		},
		{
			name:         "streaming",
			description:  "netflix monthly subscription",
			merchant:     "Netflix",
			wantCategory: "Entertainment",
		},
		{
			name:         "loan",
			description:  "student loan payment",
			merchant:     "Loan Servicer",
			wantCategory: "Debt/Loans",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := clf.Classify(tt.description, tt.merchant)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.GreaterOrEqual(t, result.Confidence, clf.Threshold())
			assert.LessOrEqual(t, result.Confidence, 1.0)
		})
	}
}

func TestClassify_FallsBackOnUnrecognizedInput(t *testing.T) {
	clf := trainSeedClassifier(t)

	tests := []struct {
		name        string
		description string
		merchant    string
	}{
		{name: "gibberish", description: "xqzzv blorptk qwmvnt"},
		{name: "empty input", description: "", merchant: ""},
		{name: "punctuation only", description: "!!! ...", merchant: "---"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := clf.Classify(tt.description, tt.merchant)
			assert.Equal(t, config.FallbackCategory, result.Category)
			assert.Zero(t, result.Confidence)
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	clf := trainSeedClassifier(t)

	first := clf.Classify("coffee and pastry", "Starbucks")
	second := clf.Classify("coffee and pastry", "Starbucks")

	assert.Equal(t, first, second)
}

func TestClassify_ConcurrentReaders(t *testing.T) {
	clf := trainSeedClassifier(t)
	want := clf.Classify("grocery shopping", "Walmart")

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				got := clf.Classify("grocery shopping", "Walmart")
				if got != want {
					t.Errorf("concurrent classify diverged: got %+v want %+v", got, want)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestTopN(t *testing.T) {
	clf := trainSeedClassifier(t)

	top := clf.TopN("flight ticket", "Delta Airlines", 3)
	require.Len(t, top, 3)
	assert.Equal(t, "Travel", top[0].Category)
	// Ranked descending.
	assert.GreaterOrEqual(t, top[0].Confidence, top[1].Confidence)
	assert.GreaterOrEqual(t, top[1].Confidence, top[2].Confidence)

	unknown := clf.TopN("zzzz qqqq", "", 3)
	require.Len(t, unknown, 1)
	assert.Equal(t, config.FallbackCategory, unknown[0].Category)
}

func TestSaveAndLoadModel(t *testing.T) {
	clf := trainSeedClassifier(t)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, clf.Save(path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)

	// The loaded model behaves identically to the trained one.
	inputs := []struct{ description, merchant string }{
		{"grocery run", "Whole Foods"},
		{"doctor visit", "Hospital"},
		{"xqzzv", ""},
	}
	for _, in := range inputs {
		assert.Equal(t,
			clf.Classify(in.description, in.merchant),
			loaded.Classify(in.description, in.merchant))
	}
	assert.Equal(t, clf.Classes(), loaded.Classes())
	assert.InDelta(t, clf.Accuracy(), loaded.Accuracy(), 1e-9)
}

func TestLoadModel_Missing(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "model artifact not found")
}

func TestLoadModel_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, writeFile(path, "{not json"))

	_, err := LoadModel(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "model artifact corrupt")
}
