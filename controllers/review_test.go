package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"grant-portal-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetRubric(t *testing.T) {
	router := gin.New()
	router.GET("/reviews/rubric", GetRubric)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reviews/rubric", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Criteria []struct {
			Key string `json:"key"`
			Max int    `json:"max"`
		} `json:"criteria"`
		DiscrepancyThreshold int `json:"discrepancy_threshold"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Len(t, body.Criteria, len(services.RubricCriteria))
	assert.Equal(t, services.DiscrepancyThreshold, body.DiscrepancyThreshold)

	sum := 0
	for _, c := range body.Criteria {
		sum += c.Max
	}
	assert.Equal(t, 100, sum)
}

func TestCoerceScores(t *testing.T) {
	in := map[string]interface{}{
		"relevance":   "8",
		"originality": float64(12),
		"clarity":     7.5,
		"methodology": true,
		"feasibility": nil,
	}

	out := coerceScores(in)
	assert.Equal(t, "8", out["relevance"])
	assert.Equal(t, "12", out["originality"])
	assert.Equal(t, "7.5", out["clarity"])
	assert.Equal(t, "", out["methodology"])
	assert.Equal(t, "", out["feasibility"])
}
