package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxBatchSize bounds the number of candidates accepted by ValidateBatch
const MaxBatchSize = 500

// ProductRequest represents the create/update payload. id and createdAt are
// accepted so a fetched product can be sent back as-is, but they are ignored.
type ProductRequest struct {
	ID          json.RawMessage   `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       domain.PriceInput `json:"price"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand"`
	ImageURL    string            `json:"imageUrl"`
	CreatedAt   json.RawMessage   `json:"createdAt,omitempty"`
}

// Candidate converts the payload into an unvalidated product candidate
func (r ProductRequest) Candidate() domain.ProductCandidate {
	c := domain.ProductCandidate{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Brand:       r.Brand,
		ImageURL:    r.ImageURL,
	}
	r.Price.Apply(&c)
	return c
}

// BatchValidationRequest represents the dry-run validation payload
type BatchValidationRequest struct {
	Products []ProductRequest `json:"products"`
}

// BatchValidationResult is the outcome for one candidate of a batch
type BatchValidationResult struct {
	Index   int                          `json:"index"`
	Valid   bool                         `json:"valid"`
	Product *domain.Product              `json:"product,omitempty"`
	Errors  []middleware.ValidationError `json:"errors,omitempty"`
}

// BatchValidationResponse represents the dry-run validation response
type BatchValidationResponse struct {
	Results []BatchValidationResult `json:"results"`
}

// ProductListResponse represents the list response
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/validate", h.ValidateBatch)
		r.Get("/{id}", h.Get)
		r.Head("/{id}", h.Exists)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// productID parses the {id} URL parameter
func productID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product ID %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// respondWithServiceError maps service errors to HTTP responses
func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, err error, action string) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	if errors.Is(err, repository.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Error("Product request failed", zap.String("action", action), zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "failed to "+action)
}

// List handles listing products with optional category and brand filters
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	// stored categories and brands are trimmed, so filters are too
	filter := repository.ProductFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Brand:    strings.TrimSpace(r.URL.Query().Get("brand")),
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		h.respondWithServiceError(w, err, "list products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Create product decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), req.Candidate())
	if err != nil {
		h.respondWithServiceError(w, err, "create product")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/products/%d", product.ID()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// ValidateBatch handles dry-run validation of several candidates
func (h *ProductHandler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchValidationRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Batch validation decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Products) > MaxBatchSize {
		middleware.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("at most %d products can be validated at once", MaxBatchSize))
		return
	}

	candidates := make([]domain.ProductCandidate, len(req.Products))
	for i, p := range req.Products {
		candidates[i] = p.Candidate()
	}

	results, err := h.productService.ValidateBatch(r.Context(), candidates)
	if err != nil {
		h.respondWithServiceError(w, err, "validate products")
		return
	}

	response := BatchValidationResponse{Results: make([]BatchValidationResult, len(results))}
	for i, result := range results {
		out := BatchValidationResult{Index: result.Index, Valid: result.Valid()}
		if out.Valid {
			product := result.Product
			out.Product = &product
		} else {
			out.Errors = middleware.FormatValidationErrors(result.Errors)
		}
		response.Results[i] = out
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, "get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Exists answers HEAD with 200 or 404 and no body
func (h *ProductHandler) Exists(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	exists, err := h.productService.Exists(r.Context(), id)
	if err != nil {
		h.logger.Error("Product request failed", zap.String("action", "check product"), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Update handles replacing the mutable fields of a product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ProductRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Update product decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.Candidate())
	if err != nil {
		h.respondWithServiceError(w, err, "update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, err, "delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
