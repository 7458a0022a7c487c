package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runtrack/internal/domain/plan"
)

// TestTrainingPlans_CreateListLink covers plan storage and session linking.
func TestTrainingPlans_CreateListLink(t *testing.T) {
	h := newTestServer(t)
	u := register(t, h, "Ana", "")
	other := register(t, h, "Bo", "")

	rec := do(t, h, "POST", "/plans", map[string]any{
		"user_id": u.ID, "name": "Spring 10K", "goal_type": plan.Goal10K, "start_date": "2026-10-19",
		"meta": map[string]any{"coach": "Kim"},
		"entries": []map[string]any{
			{"day_index": 0, "focus": plan.FocusRest},
			{"day_index": 1, "focus": plan.FocusEasy, "target_distance": 5, "target_duration_seconds": 2400},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[trainingPlanResponse](t, rec)
	require.Len(t, created.Entries, 2)
	assert.Equal(t, "2026-10-20", created.Entries[1].Date)
	assert.False(t, created.Generated)

	rec = do(t, h, "POST", "/plans", map[string]any{
		"user_id": u.ID, "name": "Bad", "goal_type": plan.Goal5K,
		"entries": []map[string]any{{"day_index": -1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "POST", "/plans/generate/goal", map[string]any{"user_id": u.ID, "goal_type": plan.Goal5K, "weeks": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	generated := decode[trainingPlanResponse](t, rec)
	assert.True(t, generated.Generated)
	assert.Len(t, generated.Entries, 14)

	rec = do(t, h, "POST", "/plans/generate/history", map[string]any{"user_id": u.ID, "weeks": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, plan.SourceHistory, decode[trainingPlanResponse](t, rec).Meta["source"])

	rec = do(t, h, "GET", "/users/"+u.ID+"/plans?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[[]trainingPlanResponse](t, rec)
	require.Len(t, list, 2)
	assert.Empty(t, list[0].Entries)

	rec = do(t, h, "GET", "/plans/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Kim", decode[trainingPlanResponse](t, rec).Meta["coach"])

	rec = do(t, h, "GET", "/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "POST", "/session/import", map[string]any{
		"user_id": u.ID, "started_at": "2026-10-20T06:30:00Z", "duration_seconds": 2400, "distance": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decode[sessionResponse](t, rec)
	rec = do(t, h, "POST", "/session/import", map[string]any{
		"user_id": other.ID, "started_at": "2026-10-20T06:30:00Z", "duration_seconds": 2400, "distance": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	theirs := decode[sessionResponse](t, rec)

	entryID := created.Entries[1].ID
	rec = do(t, h, "POST", "/plans/"+created.ID+"/entries/"+entryID+"/link", map[string]string{"session_id": run.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, run.ID, decode[planEntryDTO](t, rec).LinkedSessionID)

	rec = do(t, h, "POST", "/plans/nope/entries/"+entryID+"/link", map[string]string{"session_id": run.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, "POST", "/plans/"+created.ID+"/entries/nope/link", map[string]string{"session_id": run.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, "POST", "/plans/"+created.ID+"/entries/"+entryID+"/link", map[string]string{"session_id": theirs.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestWeekRule_DefaultSetBatch covers the default rule, saving one and the month batch.
func TestWeekRule_DefaultSetBatch(t *testing.T) {
	h := newTestServer(t)
	u := register(t, h, "Ana", "")

	rec := do(t, h, "GET", "/users/"+u.ID+"/week-rule", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rule := decode[weekRuleResponse](t, rec)
	assert.Equal(t, 0, rule.Weekday)
	assert.Equal(t, "07:00", rule.StartTime)
	assert.Nil(t, rule.UpdatedAt, "default rule is not persisted")

	rec = do(t, h, "POST", "/calendar/"+u.ID+"/batch", map[string]any{"year": 2026, "month": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	batch := decode[batchResponse](t, rec)
	assert.Equal(t, 4, batch.Count)
	assert.Equal(t, "2026-10-05", batch.Created[0].Date)

	rec = do(t, h, "PUT", "/users/"+u.ID+"/week-rule", map[string]any{
		"weekday": 6, "start_time": "09:00", "duration_minutes": 90, "distance": 15,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, decode[weekRuleResponse](t, rec).UpdatedAt)

	rec = do(t, h, "PUT", "/users/"+u.ID+"/week-rule", map[string]any{
		"weekday": 0, "start_time": "23:50", "duration_minutes": 30,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "GET", "/users/"+u.ID+"/week-rule", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decode[weekRuleResponse](t, rec).Weekday)

	// 2026-11-01 is a Sunday.
	rec = do(t, h, "POST", "/calendar/"+u.ID+"/batch", map[string]any{"year": 2026, "month": 11, "activity": "Long run"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	batch = decode[batchResponse](t, rec)
	assert.Equal(t, 5, batch.Count)
	assert.Equal(t, "Long run", batch.Created[0].Activity)

	rec = do(t, h, "POST", "/calendar/"+u.ID+"/batch", map[string]any{
		"year": 2026, "month": 11, "weekday": 0, "start_time": "18:00", "duration_minutes": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2026-11-02", decode[batchResponse](t, rec).Created[0].Date)

	rec = do(t, h, "POST", "/calendar/"+u.ID+"/batch", map[string]any{"year": 2026, "month": 13})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, "POST", "/calendar/ghost/batch", map[string]any{"year": 2026, "month": 10})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
