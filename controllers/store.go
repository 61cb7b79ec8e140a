package controllers

import (
	"net/http"
	"strconv"

	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

// StoreController proxies the WooCommerce product feed into a stable local
// shape so the storefront never talks to the store API directly.
type StoreController struct {
	woo *utils.WooCommerceClient
}

func NewStoreController(woo *utils.WooCommerceClient) *StoreController {
	return &StoreController{woo: woo}
}

// GET /v1/store/products
func (c *StoreController) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !c.woo.Configured() {
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "Store feed is not configured"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	products, err := c.woo.ListProducts(r.Context(), page, perPage)
	if err != nil {
		utils.Log.Errorw("store feed fetch failed", "error", err)
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Store feed is temporarily unavailable"})
		return
	}

	views := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0].Src
		}
		categories := make([]string, 0, len(p.Categories))
		for _, cat := range p.Categories {
			categories = append(categories, cat.Name)
		}
		views = append(views, map[string]interface{}{
			"id":         p.ID,
			"name":       p.Name,
			"permalink":  p.Permalink,
			"price":      p.Price,
			"image":      image,
			"categories": categories,
		})
	}

	// Feed data changes rarely; let clients cache briefly.
	w.Header().Set("Cache-Control", "public, max-age=300")
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: map[string]interface{}{
		"products": views,
	}})
}
