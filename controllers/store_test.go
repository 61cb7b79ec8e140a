package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

func TestListProducts_Unconfigured(t *testing.T) {
	ctrl := NewStoreController(utils.NewWooCommerceClient("", "", ""))

	rec := httptest.NewRecorder()
	ctrl.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/v1/store/products", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListProducts_MapsFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "ck_test", r.URL.Query().Get("consumer_key"))
		assert.Equal(t, "publish", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":11,"name":"Line Follower Kit","permalink":"https://store.example/p/11","price":"1499",
			 "images":[{"src":"https://store.example/i/11.jpg","alt":""}],
			 "categories":[{"id":3,"name":"Robotics"}]},
			{"id":12,"name":"Sensor Pack","permalink":"https://store.example/p/12","price":"499",
			 "images":[],"categories":[]}
		]`))
	}))
	defer srv.Close()

	ctrl := NewStoreController(utils.NewWooCommerceClient(srv.URL, "ck_test", "cs_test"))

	rec := httptest.NewRecorder()
	ctrl.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/v1/store/products?page=1&per_page=20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	var got struct {
		Data struct {
			Products []map[string]interface{} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Data.Products, 2)
	assert.Equal(t, "Line Follower Kit", got.Data.Products[0]["name"])
	assert.Equal(t, "https://store.example/i/11.jpg", got.Data.Products[0]["image"])
	assert.Equal(t, "", got.Data.Products[1]["image"], "missing image becomes an empty string")
}

func TestListProducts_UpstreamErrorIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"woocommerce_rest_cannot_view"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctrl := NewStoreController(utils.NewWooCommerceClient(srv.URL, "ck_test", "cs_test"))

	rec := httptest.NewRecorder()
	ctrl.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/v1/store/products", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
