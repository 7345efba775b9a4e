package v1

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-variants/internal/domain"
	"storefront-variants/internal/usecase"
	"storefront-variants/pkg/logger"
	"storefront-variants/pkg/utils"

	"github.com/shopspring/decimal"
)

type VariantEditorHandler struct {
	editorUC *usecase.VariantEditorUsecase
}

func NewVariantEditorHandler(uc *usecase.VariantEditorUsecase) *VariantEditorHandler {
	return &VariantEditorHandler{editorUC: uc}
}

// Routes registers the editor endpoints on mux.
func (h *VariantEditorHandler) Routes(mux *http.ServeMux) {
	const base = "/api/v1/variant-sessions"
	const variant = base + "/{id}/variants/{variantId}"

	mux.HandleFunc("POST "+base, h.CreateSession)
	mux.HandleFunc("GET "+base+"/{id}", h.GetSession)
	mux.HandleFunc("DELETE "+base+"/{id}", h.CloseSession)
	mux.HandleFunc("PUT "+base+"/{id}/attributes", h.SetAttributes)
	mux.HandleFunc("POST "+base+"/{id}/regenerate", h.Regenerate)
	mux.HandleFunc("PUT "+base+"/{id}/base-price", h.SetBasePrice)
	mux.HandleFunc("GET "+base+"/{id}/stats", h.GetStats)

	mux.HandleFunc("POST "+base+"/{id}/selection/toggle", h.ToggleSelection)
	mux.HandleFunc("POST "+base+"/{id}/selection/all", h.ToggleSelectAll)
	mux.HandleFunc("DELETE "+base+"/{id}/selection", h.ClearSelection)

	mux.HandleFunc("GET "+base+"/{id}/variants", h.ListVariants)
	mux.HandleFunc("PATCH "+base+"/{id}/variants/bulk", h.BulkEdit)
	mux.HandleFunc("POST "+base+"/{id}/variants/bulk/status", h.BulkSetActive)
	mux.HandleFunc("POST "+base+"/{id}/variants/bulk/delete", h.BulkDelete)

	mux.HandleFunc("GET "+variant, h.GetVariant)
	mux.HandleFunc("PATCH "+variant, h.UpdateVariant)
	mux.HandleFunc("DELETE "+variant, h.DeleteVariant)
	mux.HandleFunc("POST "+variant+"/duplicate", h.DuplicateVariant)
	mux.HandleFunc("POST "+variant+"/images", h.AddImage)
	mux.HandleFunc("POST "+variant+"/images/move", h.MoveImage)
	mux.HandleFunc("DELETE "+variant+"/images/{index}", h.RemoveImage)
	mux.HandleFunc("PUT "+variant+"/channels", h.SetChannel)
}

// writeError maps usecase errors to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrVariantNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidBasePrice),
		errors.Is(err, domain.ErrImageIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidSalesChannel),
		errors.Is(err, domain.ErrNegativeInventory),
		errors.Is(err, domain.ErrTooManyCombinations):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Variant editor request failed")
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	utils.WriteJSON(w, status, domain.Response{Success: true, Data: data})
}

func filterFromQuery(r *http.Request) domain.VariantFilter {
	return domain.VariantFilter{
		Search: r.URL.Query().Get("search"),
		Status: domain.ParseStatusFilter(r.URL.Query().Get("status")),
	}
}

type createSessionReq struct {
	BasePrice  decimal.Decimal     `json:"basePrice"`
	Attributes domain.AttributeSet `json:"attributes"`
}

func (h *VariantEditorHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	state, err := h.editorUC.CreateSession(r.Context(), req.BasePrice, req.Attributes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, state)
}

func (h *VariantEditorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.editorUC.State(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, state)
}

func (h *VariantEditorHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.editorUC.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setAttributesReq struct {
	Attributes domain.AttributeSet `json:"attributes"`
	Immediate  bool                `json:"immediate"`
}

// SetAttributes replies 202 while the regeneration is still debounced.
func (h *VariantEditorHandler) SetAttributes(w http.ResponseWriter, r *http.Request) {
	var req setAttributesReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	state, err := h.editorUC.SetAttributes(r.Context(), r.PathValue("id"), req.Attributes, req.Immediate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if state.Pending {
		status = http.StatusAccepted
	}
	writeData(w, status, state)
}

func (h *VariantEditorHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	state, err := h.editorUC.Regenerate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, state)
}

type basePriceReq struct {
	BasePrice *decimal.Decimal `json:"basePrice"`
}

func (h *VariantEditorHandler) SetBasePrice(w http.ResponseWriter, r *http.Request) {
	var req basePriceReq
	if err := utils.DecodeJSON(r, &req); err != nil || req.BasePrice == nil {
		utils.WriteError(w, http.StatusBadRequest, "basePrice is required")
		return
	}
	state, err := h.editorUC.SetBasePrice(r.Context(), r.PathValue("id"), *req.BasePrice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, state)
}

func (h *VariantEditorHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.editorUC.Stats(r.Context(), r.PathValue("id"), filterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *VariantEditorHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)

	variants, pagination, err := h.editorUC.ListVariants(r.Context(), r.PathValue("id"), filterFromQuery(r), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: variants, Meta: &pagination})
}

type selectionReq struct {
	VariantID string `json:"variantId"`
}

func (h *VariantEditorHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionReq
	if err := utils.DecodeJSON(r, &req); err != nil || req.VariantID == "" {
		utils.WriteError(w, http.StatusBadRequest, "variantId is required")
		return
	}
	selected, err := h.editorUC.ToggleSelection(r.Context(), r.PathValue("id"), req.VariantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"selectedIds": selected})
}

type selectAllReq struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

func (h *VariantEditorHandler) ToggleSelectAll(w http.ResponseWriter, r *http.Request) {
	var req selectAllReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	f := domain.VariantFilter{Search: req.Search, Status: domain.ParseStatusFilter(req.Status)}
	selected, err := h.editorUC.ToggleSelectAll(r.Context(), r.PathValue("id"), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"selectedIds": selected})
}

func (h *VariantEditorHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.editorUC.ClearSelection(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VariantEditorHandler) BulkEdit(w http.ResponseWriter, r *http.Request) {
	var form domain.BulkEditForm
	if err := utils.DecodeJSON(r, &form); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	res, err := h.editorUC.BulkEdit(r.Context(), r.PathValue("id"), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

type activeReq struct {
	Active *bool `json:"active"`
}

func (h *VariantEditorHandler) BulkSetActive(w http.ResponseWriter, r *http.Request) {
	var req activeReq
	if err := utils.DecodeJSON(r, &req); err != nil || req.Active == nil {
		utils.WriteError(w, http.StatusBadRequest, "active is required")
		return
	}
	res, err := h.editorUC.BulkSetActive(r.Context(), r.PathValue("id"), *req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *VariantEditorHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.editorUC.BulkDelete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *VariantEditorHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	v, err := h.editorUC.GetVariant(r.Context(), r.PathValue("id"), r.PathValue("variantId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *VariantEditorHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	var patch domain.VariantPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	v, err := h.editorUC.UpdateVariant(r.Context(), r.PathValue("id"), r.PathValue("variantId"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *VariantEditorHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	if err := h.editorUC.DeleteVariant(r.Context(), r.PathValue("id"), r.PathValue("variantId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VariantEditorHandler) DuplicateVariant(w http.ResponseWriter, r *http.Request) {
	v, err := h.editorUC.DuplicateVariant(r.Context(), r.PathValue("id"), r.PathValue("variantId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

type imageReq struct {
	URL string `json:"url"`
}

func (h *VariantEditorHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var req imageReq
	if err := utils.DecodeJSON(r, &req); err != nil || req.URL == "" {
		utils.WriteError(w, http.StatusBadRequest, "url is required")
		return
	}
	v, err := h.editorUC.AddImage(r.Context(), r.PathValue("id"), r.PathValue("variantId"), req.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *VariantEditorHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid image index")
		return
	}
	v, err := h.editorUC.RemoveImage(r.Context(), r.PathValue("id"), r.PathValue("variantId"), index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

type moveImageReq struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *VariantEditorHandler) MoveImage(w http.ResponseWriter, r *http.Request) {
	var req moveImageReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	v, err := h.editorUC.MoveImage(r.Context(), r.PathValue("id"), r.PathValue("variantId"), req.From, req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

type channelReq struct {
	Channel domain.SalesChannel `json:"channel"`
	Enabled bool                `json:"enabled"`
}

func (h *VariantEditorHandler) SetChannel(w http.ResponseWriter, r *http.Request) {
	var req channelReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	v, err := h.editorUC.SetChannel(r.Context(), r.PathValue("id"), r.PathValue("variantId"), req.Channel, req.Enabled)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}
