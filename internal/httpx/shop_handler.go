package httpx

import (
	"context"
	"encoding/json"
	"github.com/ariefcatur/go-parts-shop/internal/cart"
	"github.com/ariefcatur/go-parts-shop/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"log"
	"net/http"
	"strconv"
	"time"
)

// Catalog is the read side the handlers need; *catalog.Loader implements it.
type Catalog interface {
	Load(ctx context.Context) ([]catalog.Product, error)
	ProductByID(ctx context.Context, id int) (catalog.Product, error)
	Reload(ctx context.Context) error
}

type ShopHandler struct {
	Catalog Catalog
	Carts   *cart.Store
}

type AddItemReq struct {
	PartID *int `json:"part_id"`
}

type CartResp struct {
	CartID    string            `json:"cart_id"`
	Items     []catalog.Product `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     string            `json:"total"`
}

func (h *ShopHandler) Register(r *chi.Mux) {
	r.Get("/parts", h.listParts)
	r.Get("/parts/{id}", h.getPart)
	r.Post("/carts", h.createCart)
	r.Get("/carts/{cartID}", h.getCart)
	r.Post("/carts/{cartID}/items", h.addItem)
	r.Get("/carts/{cartID}/total", h.getTotal)
	r.Post("/admin/catalog/reload", h.reloadCatalog)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeCatalogError maps catalog failures: a miss is 404, anything else 500.
func writeCatalogError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "part not found")
		return
	}
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "catalog unavailable")
}

func cartView(c *cart.Cart) CartResp {
	items, total := c.Snapshot()
	return CartResp{CartID: c.ID(), Items: items, ItemCount: len(items), Total: total.StringFixed(2)}
}

func (h *ShopHandler) listParts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.Load(ctx)
	if err != nil {
		writeCatalogError(w, "list parts", err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ShopHandler) getPart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid part id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.ProductByID(ctx, id)
	if err != nil {
		writeCatalogError(w, "get part "+strconv.Itoa(id), err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ShopHandler) createCart(w http.ResponseWriter, r *http.Request) {
	c := h.Carts.Create()
	w.Header().Set("Location", "/carts/"+c.ID())
	writeJSON(w, http.StatusCreated, map[string]string{"cart_id": c.ID()})
}

func (h *ShopHandler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

func (h *ShopHandler) addItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}

	var req AddItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.PartID == nil {
		writeError(w, http.StatusBadRequest, "missing part_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// lookup happens outside the cart's critical section
	p, err := h.Catalog.ProductByID(ctx, *req.PartID)
	if err != nil {
		writeCatalogError(w, "add part "+strconv.Itoa(*req.PartID), err)
		return
	}
	c.Add(p)

	writeJSON(w, http.StatusCreated, cartView(c))
}

func (h *ShopHandler) getTotal(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"total": c.Total().StringFixed(2)})
}

func (h *ShopHandler) reloadCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Catalog.Reload(ctx); err != nil {
		log.Printf("reload catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
