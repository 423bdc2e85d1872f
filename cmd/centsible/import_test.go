package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

func TestReadImportRows(t *testing.T) {
	input := `date,amount,description,merchant,category
2024-01-15,42.99,weekly groceries,Whole Foods,Food
2024-01-16,12.50,lunch,Chipotle,
`
	rows, err := readImportRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.KindExpense, rows[0].Kind)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("42.99")))
	assert.Equal(t, "weekly groceries", rows[0].Description)
	assert.Equal(t, "Whole Foods", rows[0].Merchant)
	assert.Equal(t, "Food", rows[0].Category)
	assert.Equal(t, "2024-01-15", rows[0].Date.Format("2006-01-02"))

	// category column may be empty, leaving it to the classifier
	assert.Empty(t, rows[1].Category)
}

func TestReadImportRows_IncomeRows(t *testing.T) {
	input := `date,amount,description,kind,source
2024-01-31,3000,january salary,income,Salary
2024-01-31,20,snacks,,
`
	rows, err := readImportRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.KindIncome, rows[0].Kind)
	assert.Equal(t, "Salary", rows[0].Source)
	// kind defaults to expense
	assert.Equal(t, model.KindExpense, rows[1].Kind)
}

func TestReadImportRows_ColumnOrderIndependent(t *testing.T) {
	input := `description,category,amount,date
coffee,Dining,4.75,2024-02-01
`
	rows, err := readImportRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "coffee", rows[0].Description)
	assert.Equal(t, "Dining", rows[0].Category)
	assert.Empty(t, rows[0].Merchant)
}

func TestReadImportRows_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing required column",
			input: "date,description\n2024-01-01,lunch\n",
		},
		{
			name:  "bad date",
			input: "date,amount,description\n01/15/2024,10,lunch\n",
		},
		{
			name:  "bad amount",
			input: "date,amount,description\n2024-01-15,ten,lunch\n",
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:  "invalid kind",
			input: "date,amount,description,kind\n2024-01-15,10,lunch,transfer\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readImportRows(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadImportRows_NoRows(t *testing.T) {
	rows, err := readImportRows(strings.NewReader("date,amount,description\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

type stubClassifier struct {
	category string
}

func (s *stubClassifier) Classify(_, _ string) model.ClassificationResult {
	return model.ClassificationResult{Category: s.category, Confidence: 0.9}
}

func TestClassifyImportRows(t *testing.T) {
	rows := []model.Transaction{
		{Kind: model.KindExpense, Description: "lunch"},
		{Kind: model.KindExpense, Description: "rent", Category: "Rent/Mortgage"},
	}

	classified, err := classifyImportRows(rows, &stubClassifier{category: "Dining"}, config.DefaultTaxonomy())
	require.NoError(t, err)

	assert.Equal(t, 1, classified)
	assert.Equal(t, "Dining", rows[0].Category)
	assert.Equal(t, "Dining", rows[0].PredictedCategory)
	// explicit categories win over the prediction
	assert.Equal(t, "Rent/Mortgage", rows[1].Category)
	assert.Equal(t, "Dining", rows[1].PredictedCategory)
}

func TestClassifyImportRows_IncomeSourceValidated(t *testing.T) {
	rows := []model.Transaction{
		{Kind: model.KindIncome, Source: "Salary"},
	}
	classified, err := classifyImportRows(rows, &stubClassifier{category: "Other"}, config.DefaultTaxonomy())
	require.NoError(t, err)
	assert.Zero(t, classified)
	assert.Empty(t, rows[0].PredictedCategory)

	rows[0].Source = "Lottery"
	_, err = classifyImportRows(rows, &stubClassifier{category: "Other"}, config.DefaultTaxonomy())
	assert.ErrorContains(t, err, "Lottery")
}

func TestClassifyImportRows_RejectsUnknownCategory(t *testing.T) {
	rows := []model.Transaction{
		{Kind: model.KindExpense, Description: "stuff", Category: "Gadgets"},
	}

	_, err := classifyImportRows(rows, &stubClassifier{category: "Other"}, config.DefaultTaxonomy())
	assert.ErrorContains(t, err, "Gadgets")
}
