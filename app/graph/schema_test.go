package graph

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	gql "github.com/PascalSeth/trendiwear/pkg/graphql"
	"github.com/PascalSeth/trendiwear/pkg/testkit"
)

func seedCatalog(t *testing.T, db *gorm.DB) (models.Category, models.Product) {
	t.Helper()
	u := models.User{Name: "Abena", Email: "abena@trendiwear.test", Password: "x", Role: auth.RoleProfessional, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	pt := models.ProfessionalType{Name: "Designer", IsActive: true}
	require.NoError(t, db.Create(&pt).Error)
	prof := models.ProfessionalProfile{UserID: u.ID, ProfessionalTypeID: pt.ID, BusinessName: "Abena Designs"}
	require.NoError(t, db.Create(&prof).Error)

	cat := models.Category{Name: "Dresses", Slug: "dresses", IsActive: true}
	require.NoError(t, db.Create(&cat).Error)
	sub := models.Category{Name: "Maxi", Slug: "maxi", ParentID: &cat.ID, IsActive: true}
	require.NoError(t, db.Create(&sub).Error)

	live := models.Product{Name: "Kente Maxi", Price: decimal.RequireFromString("150"), StockQuantity: 2,
		CategoryID: cat.ID, ProfessionalID: prof.ID, Sizes: models.StringList{"S", "M"}, IsActive: true}
	require.NoError(t, db.Create(&live).Error)
	hidden := models.Product{Name: "Retired Wrap", Price: decimal.NewFromInt(10), CategoryID: cat.ID, ProfessionalID: prof.ID}
	require.NoError(t, db.Create(&hidden).Error)
	return cat, live
}

func post(t *testing.T, h http.Handler, query string) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Nil(t, out["errors"], rec.Body.String())
	return out["data"].(map[string]any)
}

func TestStorefrontQueries(t *testing.T) {
	db := testkit.NewDB(t, models.All()...)
	_, live := seedCatalog(t, db)

	schema, err := Schema()
	require.NoError(t, err)
	h := gql.Handler(schema)

	data := post(t, h, `{ products { id name price sizes category { slug } professional { businessName } } }`)
	list := data["products"].([]any)
	require.Len(t, list, 1)
	p := list[0].(map[string]any)
	assert.Equal(t, float64(live.ID), p["id"])
	assert.Equal(t, "150.00", p["price"])
	assert.Equal(t, []any{"S", "M"}, p["sizes"])
	assert.Equal(t, "dresses", p["category"].(map[string]any)["slug"])
	assert.Equal(t, "Abena Designs", p["professional"].(map[string]any)["businessName"])

	data = post(t, h, `{ categories { slug parentId } }`)
	cats := data["categories"].([]any)
	require.Len(t, cats, 1)
	assert.Nil(t, cats[0].(map[string]any)["parentId"])
}

func TestInactiveProductIsNull(t *testing.T) {
	db := testkit.NewDB(t, models.All()...)
	seedCatalog(t, db)
	var hidden models.Product
	require.NoError(t, db.Where("name = ?", "Retired Wrap").First(&hidden).Error)

	schema, err := Schema()
	require.NoError(t, err)
	data := post(t, gql.Handler(schema), `{ product(id: `+jsonInt(hidden.ID)+`) { name } }`)
	assert.Nil(t, data["product"])
}

func TestHandlerRejectsOtherMethods(t *testing.T) {
	schema, err := Schema()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	gql.Handler(schema).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	gql.Handler(schema).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func jsonInt(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
