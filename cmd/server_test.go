package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsphweid/cuegrid/grid"
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONUnencodable(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, model.TargetRecord{ID: 1, Velocity: 0})

	assert := assert.New(t)
	assert.Equal(http.StatusInternalServerError, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(resp.Error, "could not encode response")
}

func TestConfigureWithoutVelocityIsRejected(t *testing.T) {
	l := logger.Discard()
	s := session.New(l, grid.Default)
	b, err := s.NewChain(0, 0, qnt.FromTicks(0))
	require.NoError(t, err)
	router := NewServer(s, l, "", 0).Router()

	path := fmt.Sprintf("/builders/%d/params", b.Anchor().ID())
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"interval_ticks": 240, "steps": 2}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert := assert.New(t)
	assert.Equal(http.StatusBadRequest, w.Code)
	assert.Equal(model.VelocityStandard, b.Params().Velocity)
	assert.Len(b.Generated(), 15)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chart", nil))
	assert.Equal(http.StatusOK, w.Code)
	var chart model.ChartSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	assert.Len(chart.Targets, 16)
}
