package v1

import (
	"net/http"

	"storefront-variants/internal/domain"
	"storefront-variants/pkg/utils"
)

type ConfigHandler struct{}

func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

// GetEnums returns the option lists the editor UI renders in dropdowns.
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"attributeKinds": domain.AttributeKinds,
		"salesChannels":  domain.SalesChannels,
		"statusFilters":  domain.StatusFilters,
	})
}
