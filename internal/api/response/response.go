package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
)

// JSON escreve o corpo de sucesso com o status informado.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz o erro de serviço para o status HTTP e o corpo padronizado
// {error, code, category}. A mensagem do driver ou do stack nunca chega ao cliente.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	fields := map[string]interface{}{
		"method":   r.Method,
		"path":     r.URL.Path,
		"status":   status,
		"category": category,
	}
	if status >= 500 {
		log.With(fields).Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d", status), fields)
	}

	JSON(w, log, status, domain.ErrorResponse{
		Error:    message,
		Code:     status,
		Category: category,
	})
}

// MaxBodyBytes limita o corpo JSON aceito pelos handlers.
const MaxBodyBytes int64 = 1 << 20

// Decode lê o corpo JSON da requisição; corpo inválido ou acima de
// MaxBodyBytes vira ValidationError.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.NewValidationError("Payload excede o tamanho máximo.")
		}
		return apperror.NewValidationError("Payload JSON inválido.")
	}
	return nil
}
