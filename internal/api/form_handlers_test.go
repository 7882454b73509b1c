package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojolog/dojolog-server/internal/service"
)

func (ts *testServer) createForm(t *testing.T, cookie string, body map[string]any) FormResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/forms", cookie, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[FormResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func formNames(forms []FormResponse) []string {
	names := make([]string, len(forms))
	for i, f := range forms {
		names[i] = f.Name
	}
	return names
}

func TestCreateForm(t *testing.T) {
	ts := setupTestServer(t)
	cookie, userID := ts.signup(t, "demo@dojo.app")

	form := ts.createForm(t, cookie, map[string]any{
		"name":        "  Saifa Kata ",
		"rank_type":   "kyu",
		"rank_number": 7,
		"category":    "kata",
		"learned":     true,
	})

	assert.NotEmpty(t, form.ID)
	assert.Equal(t, userID, form.OwnerID)
	assert.Equal(t, "Saifa Kata", form.Name)
	assert.Equal(t, "Kyu", form.RankType)
	assert.Equal(t, "Kyu 7", form.Rank)
	assert.Equal(t, "Kata", form.Category)
	assert.True(t, form.Learned)
	assert.Nil(t, form.DeletedAt)
}

func TestCreateForm_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/forms", map[string]any{
		"name": "Saifa Kata", "rank_type": "Kyu", "rank_number": 7,
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateForm_Validation(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.signup(t, "demo@dojo.app")

	resp := ts.api.Post("/api/v1/forms", cookie, map[string]any{
		"name":          "S",
		"rank_type":     "Belt",
		"reference_url": "ftp://example.com/video",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	envelope := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", envelope.Code)
	for _, field := range []string{"name", "rank_type", "rank_number", "reference_url"} {
		assert.Contains(t, envelope.Details, field)
	}
}

func TestCreateForm_Duplicate(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.signup(t, "demo@dojo.app")

	body := map[string]any{"name": "Saifa Kata", "rank_type": "Kyu", "rank_number": 7}
	ts.createForm(t, cookie, body)

	resp := ts.api.Post("/api/v1/forms", cookie, body)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "DUPLICATE_RECORD", decodeError(t, resp).Code)
}

func TestListForms_OrderedAndOwnerScoped(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.signup(t, "demo@dojo.app")
	other, _ := ts.signup(t, "other@dojo.app")

	ts.createForm(t, cookie, map[string]any{"name": "Kururunfa Kata", "rank_type": "Dan", "rank_number": 1})
	ts.createForm(t, cookie, map[string]any{"name": "Gekisai Dai Ni", "rank_type": "Kyu", "rank_number": 9})
	ts.createForm(t, cookie, map[string]any{"name": "Sanchin Kata", "rank_type": "Kyu", "rank_number": 10})
	ts.createForm(t, cookie, map[string]any{"name": "gekisai dai ichi", "rank_type": "Kyu", "rank_number": 9})
	ts.createForm(t, other, map[string]any{"name": "Tensho Kata", "rank_type": "Kyu", "rank_number": 3})

	resp := ts.api.Get("/api/v1/forms", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[FormListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	want := []string{"Sanchin Kata", "gekisai dai ichi", "Gekisai Dai Ni", "Kururunfa Kata"}
	if diff := cmp.Diff(want, formNames(envelope.Data.Forms)); diff != "" {
		t.Errorf("list order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, envelope.Data.Total)
}

func TestListForms_Anonymous(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.signup(t, "demo@dojo.app")
	ts.createForm(t, cookie, map[string]any{"name": "Sanchin Kata", "rank_type": "Kyu", "rank_number": 10})

	resp := ts.api.Get("/api/v1/forms")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[FormListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data.Forms)
	assert.Empty(t, envelope.Data.Forms)
}

func TestGetForm_WithNeighbors(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.signup(t, "demo@dojo.app")

	a := ts.createForm(t, cookie, map[string]any{"name": "A", "rank_type": "Kyu", "rank_number": 10})
	b := ts.createForm(t, cookie, map[string]any{"name": "Bb", "rank_type": "Kyu", "rank_number": 9})
	c := ts.createForm(t, cookie, map[string]any{"name": "Cc", "rank_type": "Dan", "rank_number": 1})
	_ = a

	// Public read: no cookie needed.
	resp := ts.api.Get("/api/v1/forms/" + b.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[FormDetailResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Bb", envelope.Data.Form.Name)
	assert.False(t, envelope.Data.IsOwner)
	require.NotNil(t, envelope.Data.Neighbors.PreviousID)
	require.NotNil(t, envelope.Data.Neighbors.NextID)
	assert.Equal(t, a.ID, *envelope.Data.Neighbors.PreviousID)
	assert.Equal(t, c.ID, *envelope.Data.Neighbors.NextID)
}

func TestGetForm_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/forms/form-missing")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestEditForm_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	owner, _ := ts.signup(t, "demo@dojo.app")
	stranger, _ := ts.signup(t, "other@dojo.app")

	form := ts.createForm(t, owner, map[string]any{"name": "Saifa Kata", "rank_type": "Kyu", "rank_number": 7})

	resp := ts.api.Get("/api/v1/forms/"+form.ID+"/edit", owner)
	require.Equal(t, http.StatusOK, resp.Code)
	var envelope testEnvelope[FormDetailResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.IsOwner)

	resp = ts.api.Get("/api/v1/forms/"+form.ID+"/edit", stranger)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)

	resp = ts.api.Get("/api/v1/forms/" + form.ID + "/edit")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUpdateForm(t *testing.T) {
	ts := setupTestServer(t)
	owner, _ := ts.signup(t, "demo@dojo.app")
	stranger, _ := ts.signup(t, "other@dojo.app")

	form := ts.createForm(t, owner, map[string]any{"name": "Saifa Kata", "rank_type": "Kyu", "rank_number": 7})

	update := map[string]any{
		"name":        "Saifa Kata",
		"rank_type":   "Kyu",
		"rank_number": 6,
		"description": "Tear and smash",
		"learned":     true,
	}

	resp := ts.api.Put("/api/v1/forms/"+form.ID, owner, update)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[FormResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 6, envelope.Data.RankNumber)
	assert.Equal(t, "Tear and smash", envelope.Data.Description)
	assert.True(t, envelope.Data.Learned)

	resp = ts.api.Put("/api/v1/forms/"+form.ID, stranger, update)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestDeleteAndRestoreForm(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.signup(t, "demo@dojo.app")

	body := map[string]any{"name": "Saifa Kata", "rank_type": "Kyu", "rank_number": 7}
	form := ts.createForm(t, cookie, body)

	resp := ts.api.Delete("/api/v1/forms/"+form.ID, cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var deleted testEnvelope[DeleteFormResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &deleted))
	assert.False(t, deleted.Data.Purged)
	require.NotNil(t, deleted.Data.Form)
	assert.NotNil(t, deleted.Data.Form.DeletedAt)

	// Trashed forms leave the list and the public view, and show up in the trash.
	resp = ts.api.Get("/api/v1/forms/" + form.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/forms/trash", cookie)
	var trash testEnvelope[FormListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &trash))
	assert.Equal(t, []string{"Saifa Kata"}, formNames(trash.Data.Forms))

	// The slot is free again, so a new live record can take it.
	replacement := ts.createForm(t, cookie, body)

	// Restoring the old record now collides with the replacement.
	resp = ts.api.Post("/api/v1/forms/"+form.ID+"/restore", cookie)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "DUPLICATE_RECORD", decodeError(t, resp).Code)

	// Purge the replacement, then the restore succeeds.
	resp = ts.api.Delete("/api/v1/forms/"+replacement.ID+"?hard=1", cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &deleted))
	assert.True(t, deleted.Data.Purged)
	assert.Nil(t, deleted.Data.Form)

	resp = ts.api.Post("/api/v1/forms/"+form.ID+"/restore", cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var restored testEnvelope[FormResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &restored))
	assert.Nil(t, restored.Data.DeletedAt)

	resp = ts.api.Get("/api/v1/forms/" + replacement.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteForm_Forbidden(t *testing.T) {
	ts := setupTestServer(t)
	owner, _ := ts.signup(t, "demo@dojo.app")
	stranger, _ := ts.signup(t, "other@dojo.app")

	form := ts.createForm(t, owner, map[string]any{"name": "Saifa Kata", "rank_type": "Kyu", "rank_number": 7})

	resp := ts.api.Delete("/api/v1/forms/"+form.ID+"?hard=1", stranger)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/forms/" + form.ID)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestNewFormPage(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.signup(t, "demo@dojo.app")
	ts.createForm(t, cookie, map[string]any{"name": "Sanchin Kata", "rank_type": "Kyu", "rank_number": 10, "learned": true})

	resp := ts.api.Get("/api/v1/forms/new", cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[service.NewFormPage]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Error)
	assert.Equal(t, []string{"sanchin kata"}, envelope.Data.LearnedNames)
	assert.Equal(t, 1, envelope.Data.Chart.Total)
	assert.NotEmpty(t, envelope.Data.AllNames)
	assert.Equal(t, "chip-white", envelope.Data.KyuChips[10])
}
