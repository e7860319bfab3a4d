package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Error    string `json:"error" example:"Credenciais inválidas."`
	Code     int    `json:"code" example:"401"`
	Category string `json:"category" example:"INVALID_CREDENTIALS"`
}
