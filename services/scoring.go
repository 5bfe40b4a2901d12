package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"grant-portal-api/models"
)

// Criterion is one rubric dimension with its fixed maximum score.
type Criterion struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Max   int    `json:"max"`
}

// RubricCriteria is the fixed ten-criterion scoring rubric. Maxima sum to 100.
var RubricCriteria = []Criterion{
	{Key: "relevance", Label: "Relevance", Max: 10},
	{Key: "originality", Label: "Originality", Max: 15},
	{Key: "clarity", Label: "Clarity", Max: 10},
	{Key: "methodology", Label: "Methodology", Max: 15},
	{Key: "literature_review", Label: "Literature Review", Max: 10},
	{Key: "team_composition", Label: "Team Composition", Max: 10},
	{Key: "feasibility", Label: "Feasibility", Max: 10},
	{Key: "budget_justification", Label: "Budget Justification", Max: 10},
	{Key: "expected_outcomes", Label: "Expected Outcomes", Max: 5},
	{Key: "sustainability", Label: "Sustainability", Max: 5},
}

// DiscrepancyThreshold is the absolute per-criterion score difference at or
// above which independent reviews are considered discrepant.
const DiscrepancyThreshold = 3

// CriterionMax returns the maximum score for a rubric key, or -1 when the key
// is unknown.
func CriterionMax(key string) int {
	for _, c := range RubricCriteria {
		if c.Key == key {
			return c.Max
		}
	}
	return -1
}

// ClampScore bounds a score into [0, max].
func ClampScore(value, max int) int {
	if value < 0 {
		return 0
	}
	if value > max {
		return max
	}
	return value
}

// ParseScore converts raw form input into a stored score. Non-numeric input
// stores 0; out-of-range values clamp to the criterion bounds.
func ParseScore(raw string, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return ClampScore(n, max)
}

// ReviewTotal sums the criterion scores of a review. The second return value
// is false while any criterion is still unscored.
func ReviewTotal(r *models.Review) (int, bool) {
	total := 0
	for _, c := range RubricCriteria {
		score := r.CriterionScore(c.Key)
		if score == nil {
			return 0, false
		}
		total += *score
	}
	return total, true
}

// ValidateReviewComplete enforces the submit guard: every criterion scored
// within bounds and non-empty comments.
func ValidateReviewComplete(r *models.Review) error {
	for _, c := range RubricCriteria {
		score := r.CriterionScore(c.Key)
		if score == nil {
			return fmt.Errorf("criterion '%s' has no score", c.Key)
		}
		if *score < 0 || *score > c.Max {
			return fmt.Errorf("criterion '%s' score %d is out of range 0-%d", c.Key, *score, c.Max)
		}
	}
	if r.Comments == nil || strings.TrimSpace(*r.Comments) == "" {
		return errors.New("review comments are required")
	}
	return nil
}

// CriterionDiscrepancy describes one rubric criterion whose scores diverged
// across independent reviews.
type CriterionDiscrepancy struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Max        int    `json:"max"`
	Lowest     int    `json:"lowest"`
	Highest    int    `json:"highest"`
	Difference int    `json:"difference"`
}

// DetectDiscrepancies compares criterion scores across completed reviews and
// returns the criteria whose max-min spread meets the threshold. Criteria not
// scored by every review are skipped.
func DetectDiscrepancies(reviews []models.Review) []CriterionDiscrepancy {
	var out []CriterionDiscrepancy
	if len(reviews) < 2 {
		return out
	}

	for _, c := range RubricCriteria {
		lowest, highest := 0, 0
		scored := 0
		for i := range reviews {
			score := reviews[i].CriterionScore(c.Key)
			if score == nil {
				continue
			}
			if scored == 0 || *score < lowest {
				lowest = *score
			}
			if scored == 0 || *score > highest {
				highest = *score
			}
			scored++
		}
		if scored < len(reviews) {
			continue
		}
		if diff := highest - lowest; diff >= DiscrepancyThreshold {
			out = append(out, CriterionDiscrepancy{
				Key:        c.Key,
				Label:      c.Label,
				Max:        c.Max,
				Lowest:     lowest,
				Highest:    highest,
				Difference: diff,
			})
		}
	}
	return out
}

// AggregateFinalScore computes a proposal's final score from its completed
// reviews. A completed reconciliation review is authoritative; otherwise the
// final score is the mean of the completed first-round totals.
func AggregateFinalScore(reviews []models.Review) (float64, error) {
	var firstRound []int
	for i := range reviews {
		r := &reviews[i]
		if r.Status != ReviewStatusCompleted || r.TotalScore == nil {
			continue
		}
		if r.ReviewType == ReviewTypeReconciliation {
			return float64(*r.TotalScore), nil
		}
		firstRound = append(firstRound, *r.TotalScore)
	}
	if len(firstRound) == 0 {
		return 0, errors.New("no completed reviews to aggregate")
	}

	sum := 0
	for _, t := range firstRound {
		sum += t
	}
	return float64(sum) / float64(len(firstRound)), nil
}
