package services

import (
	"testing"

	"grant-portal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedReview(scores map[string]int, comments string) models.Review {
	r := models.Review{Status: ReviewStatusCompleted}
	for key, value := range scores {
		r.SetCriterionScore(key, value)
	}
	if comments != "" {
		r.Comments = &comments
	}
	if total, ok := ReviewTotal(&r); ok {
		r.TotalScore = &total
	}
	return r
}

func uniformScores(value int) map[string]int {
	scores := make(map[string]int, len(RubricCriteria))
	for _, c := range RubricCriteria {
		scores[c.Key] = value
	}
	return scores
}

func TestRubricMaximaSumToHundred(t *testing.T) {
	sum := 0
	for _, c := range RubricCriteria {
		sum += c.Max
	}
	assert.Equal(t, 100, sum)

	assert.Equal(t, 15, CriterionMax("originality"))
	assert.Equal(t, 15, CriterionMax("methodology"))
	assert.Equal(t, 5, CriterionMax("sustainability"))
	assert.Equal(t, -1, CriterionMax("vibes"))
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		max  int
		want int
	}{
		{"plain number", "7", 10, 7},
		{"whitespace", " 7 ", 10, 7},
		{"non-numeric stores zero", "abc", 10, 0},
		{"empty stores zero", "", 10, 0},
		{"above max clamps", "99", 15, 15},
		{"negative clamps to zero", "-4", 10, 0},
		{"exactly max", "10", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScore(tt.raw, tt.max))
		})
	}
}

func TestReviewTotal(t *testing.T) {
	r := completedReview(uniformScores(5), "fine")
	total, complete := ReviewTotal(&r)
	assert.True(t, complete)
	assert.Equal(t, 50, total)

	// missing one criterion means no total
	partial := models.Review{}
	partial.SetCriterionScore("relevance", 10)
	_, complete = ReviewTotal(&partial)
	assert.False(t, complete)
}

func TestValidateReviewComplete(t *testing.T) {
	r := completedReview(uniformScores(4), "solid methodology, thin budget")
	assert.NoError(t, ValidateReviewComplete(&r))

	noComments := completedReview(uniformScores(4), "")
	assert.ErrorContains(t, ValidateReviewComplete(&noComments), "comments")

	blankComments := completedReview(uniformScores(4), "   ")
	assert.ErrorContains(t, ValidateReviewComplete(&blankComments), "comments")

	missing := completedReview(uniformScores(4), "ok")
	missing.ScoreFeasibility = nil
	assert.ErrorContains(t, ValidateReviewComplete(&missing), "feasibility")

	outOfRange := completedReview(uniformScores(4), "ok")
	over := 20
	outOfRange.ScoreClarity = &over
	assert.ErrorContains(t, ValidateReviewComplete(&outOfRange), "clarity")
}

func TestDetectDiscrepancies(t *testing.T) {
	base := uniformScores(5)
	other := uniformScores(5)

	// identical reviews never discrepant, even at criterion maxima
	base["methodology"] = 15
	other["methodology"] = 15
	a := completedReview(base, "a")
	b := completedReview(other, "b")
	assert.Empty(t, DetectDiscrepancies([]models.Review{a, b}))

	// a spread of 7 on literature_review is flagged
	base["literature_review"] = 9
	other["literature_review"] = 2
	a = completedReview(base, "a")
	b = completedReview(other, "b")
	found := DetectDiscrepancies([]models.Review{a, b})
	require.Len(t, found, 1)
	assert.Equal(t, "literature_review", found[0].Key)
	assert.Equal(t, 2, found[0].Lowest)
	assert.Equal(t, 9, found[0].Highest)
	assert.Equal(t, 7, found[0].Difference)
}

func TestDetectDiscrepanciesThresholdBoundary(t *testing.T) {
	low := uniformScores(5)
	high := uniformScores(5)

	// spread of 2 stays below the threshold
	low["relevance"], high["relevance"] = 4, 6
	a := completedReview(low, "a")
	b := completedReview(high, "b")
	assert.Empty(t, DetectDiscrepancies([]models.Review{a, b}))

	// spread of exactly 3 is flagged
	low["relevance"], high["relevance"] = 4, 7
	a = completedReview(low, "a")
	b = completedReview(high, "b")
	found := DetectDiscrepancies([]models.Review{a, b})
	require.Len(t, found, 1)
	assert.Equal(t, "relevance", found[0].Key)
	assert.Equal(t, DiscrepancyThreshold, found[0].Difference)
}

func TestDetectDiscrepanciesNeedsTwoReviews(t *testing.T) {
	a := completedReview(uniformScores(5), "a")
	assert.Empty(t, DetectDiscrepancies([]models.Review{a}))
	assert.Empty(t, DetectDiscrepancies(nil))
}

func TestAggregateFinalScoreMean(t *testing.T) {
	a := completedReview(uniformScores(5), "a") // total 50
	b := completedReview(uniformScores(8), "b") // total 80
	require.NotNil(t, a.TotalScore)
	require.NotNil(t, b.TotalScore)

	final, err := AggregateFinalScore([]models.Review{a, b})
	require.NoError(t, err)
	want := float64(*a.TotalScore+*b.TotalScore) / 2
	assert.Equal(t, want, final)
}

func TestAggregateFinalScoreReconciliationWins(t *testing.T) {
	a := completedReview(uniformScores(5), "a")
	b := completedReview(uniformScores(8), "b")
	recon := completedReview(uniformScores(6), "settled")
	recon.ReviewType = ReviewTypeReconciliation

	final, err := AggregateFinalScore([]models.Review{a, b, recon})
	require.NoError(t, err)
	assert.Equal(t, float64(*recon.TotalScore), final)
}

func TestAggregateFinalScoreIgnoresIncomplete(t *testing.T) {
	pending := models.Review{Status: ReviewStatusInProgress}
	_, err := AggregateFinalScore([]models.Review{pending})
	assert.Error(t, err)
}
