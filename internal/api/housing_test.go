package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-dashboard/internal/housing"
)

const housingCSV = `price,sqft_living,bathrooms,sqft_above,view,zipcode_name
100,1000,1,900,0,north
200,2000,2,1800,0,south
300,3000,2,2700,1,north
`

func setupHousingRouter(t *testing.T, opts HousingOptions) *gin.Engine {
	t.Helper()
	data, err := housing.Parse("housing.csv", strings.NewReader(housingCSV))
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHousingHandler(data, opts).RegisterRoutes(router)
	return router
}

func TestHousingOverview(t *testing.T) {
	router := setupHousingRouter(t, HousingOptions{})

	w := get(t, router, "/api/housing/overview?rows=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rows           int              `json:"rows"`
		NumericColumns []string         `json:"numeric_columns"`
		Head           housing.Overview `json:"head"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Rows)
	assert.NotContains(t, resp.NumericColumns, "zipcode_name")
	assert.Len(t, resp.Head.Rows, 2)

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/housing/overview?rows=many").Code)
}

func TestHousingSummary(t *testing.T) {
	router := setupHousingRouter(t, HousingOptions{})

	w := get(t, router, "/api/housing/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var resp housing.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Describe, 5)
	assert.Equal(t, 200.0, *resp.Describe[0].Mean)
	assert.Equal(t, "price", resp.Median[0].Column)
	assert.Equal(t, 200.0, *resp.Median[0].Value)
}

func TestHousingCorrelation(t *testing.T) {
	router := setupHousingRouter(t, HousingOptions{})

	w := get(t, router, "/api/housing/correlation")
	require.Equal(t, http.StatusOK, w.Code)

	var m housing.Matrix
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Len(t, m.Values, 5)
	assert.InDelta(t, 1.0, *m.Values[0][1], 1e-9)
}

func TestHousingScatter(t *testing.T) {
	router := setupHousingRouter(t, HousingOptions{ScatterColumns: []string{"price", "view"}})

	w := get(t, router, "/api/housing/scatter")
	require.Equal(t, http.StatusOK, w.Code)
	var s housing.Scatter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, []string{"price", "view"}, s.Columns)

	w = get(t, router, "/api/housing/scatter?column=bathrooms")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, []string{"bathrooms"}, s.Columns)

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/housing/scatter?column=zipcode_name").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/housing/scatter?column=lot").Code)
}

func TestHousingZScores(t *testing.T) {
	router := setupHousingRouter(t, HousingOptions{ZScoreRows: 2})

	w := get(t, router, "/api/housing/zscores")
	require.Equal(t, http.StatusOK, w.Code)
	var m housing.Matrix
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Len(t, m.Values, 2)
	assert.InDelta(t, -1.0, *m.Values[0][0], 1e-9)

	w = get(t, router, "/api/housing/zscores?rows=3")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Len(t, m.Values, 3)
}

func TestHousingExport(t *testing.T) {
	router := setupHousingRouter(t, HousingOptions{ExportFilename: "stats.csv"})

	w := get(t, router, "/api/housing/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="stats.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "column,count,mean"))

	w = get(t, router, "/api/housing/export?format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="stats.xlsx"`, w.Header().Get("Content-Disposition"))

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/housing/export?format=ods").Code)
}
