package models

import "time"

type Review struct {
	ReviewID    int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	ProposalID  int        `gorm:"column:proposal_id" json:"proposal_id"`
	ReviewerID  int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	ReviewType  string     `gorm:"column:review_type" json:"review_type"`
	Status      string     `gorm:"column:status" json:"status"`
	ReviewRound int        `gorm:"column:review_round" json:"review_round"`
	Superseded  bool       `gorm:"column:superseded" json:"superseded"`
	TotalScore  *int       `gorm:"column:total_score" json:"total_score,omitempty"`
	Comments    *string    `gorm:"column:comments" json:"comments,omitempty"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Rubric criterion scores, nullable until the reviewer enters them.
	ScoreRelevance           *int `gorm:"column:score_relevance" json:"score_relevance,omitempty"`
	ScoreOriginality         *int `gorm:"column:score_originality" json:"score_originality,omitempty"`
	ScoreClarity             *int `gorm:"column:score_clarity" json:"score_clarity,omitempty"`
	ScoreMethodology         *int `gorm:"column:score_methodology" json:"score_methodology,omitempty"`
	ScoreLiteratureReview    *int `gorm:"column:score_literature_review" json:"score_literature_review,omitempty"`
	ScoreTeamComposition     *int `gorm:"column:score_team_composition" json:"score_team_composition,omitempty"`
	ScoreFeasibility         *int `gorm:"column:score_feasibility" json:"score_feasibility,omitempty"`
	ScoreBudgetJustification *int `gorm:"column:score_budget_justification" json:"score_budget_justification,omitempty"`
	ScoreExpectedOutcomes    *int `gorm:"column:score_expected_outcomes" json:"score_expected_outcomes,omitempty"`
	ScoreSustainability      *int `gorm:"column:score_sustainability" json:"score_sustainability,omitempty"`

	Reviewer *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Proposal *Proposal `gorm:"foreignKey:ProposalID" json:"proposal,omitempty"`
}

// TableName specifies the table name for Review.
func (Review) TableName() string {
	return "reviews"
}

// CriterionScore returns a pointer to the stored score for a rubric criterion key,
// or nil for an unknown key.
func (r *Review) CriterionScore(key string) *int {
	if p := r.criterionField(key); p != nil {
		return *p
	}
	return nil
}

// SetCriterionScore stores a score against a rubric criterion key. It reports
// whether the key named a known criterion.
func (r *Review) SetCriterionScore(key string, value int) bool {
	p := r.criterionField(key)
	if p == nil {
		return false
	}
	v := value
	*p = &v
	return true
}

func (r *Review) criterionField(key string) **int {
	switch key {
	case "relevance":
		return &r.ScoreRelevance
	case "originality":
		return &r.ScoreOriginality
	case "clarity":
		return &r.ScoreClarity
	case "methodology":
		return &r.ScoreMethodology
	case "literature_review":
		return &r.ScoreLiteratureReview
	case "team_composition":
		return &r.ScoreTeamComposition
	case "feasibility":
		return &r.ScoreFeasibility
	case "budget_justification":
		return &r.ScoreBudgetJustification
	case "expected_outcomes":
		return &r.ScoreExpectedOutcomes
	case "sustainability":
		return &r.ScoreSustainability
	}
	return nil
}
