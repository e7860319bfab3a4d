package middleware

import (
	"encoding/json"
	"net/http"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
)

// writeError responde com o corpo padronizado {error, code, category}.
func writeError(w http.ResponseWriter, appErr apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Error:    appErr.PublicMessage(),
		Code:     appErr.HTTPStatus(),
		Category: appErr.Category(),
	})
}
