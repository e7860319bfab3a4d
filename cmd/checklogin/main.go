// Comando checklogin envia um login para um servidor em execução e mostra a resposta.
//
//	go run ./cmd/checklogin -url http://localhost:10000 -email ana@x.com -password pw123
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"seaconnector/internal/domain"
)

// Códigos de saída.
const (
	exitOK          = 0
	exitServerError = 1
	exitNoResponse  = 2
)

// errServerResponse indica que o servidor respondeu, mas com status de erro.
var errServerResponse = errors.New("servidor respondeu com erro")

func main() {
	_ = godotenv.Load()

	defaultURL := "http://localhost:" + envOr("PORT", "10000")

	baseURL := flag.String("url", defaultURL, "URL base do servidor")
	email := flag.String("email", "", "email do usuário")
	password := flag.String("password", "", "senha do usuário")
	timeout := flag.Duration("timeout", 10*time.Second, "timeout da requisição")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	os.Exit(run(client, *baseURL, domain.LoginRequest{Email: *email, Password: *password}, os.Stdout))
}

func run(client *http.Client, baseURL string, creds domain.LoginRequest, out io.Writer) int {
	status, body, err := checkLogin(client, baseURL, creds)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Login correto (%d):\n%s\n", status, body)
		return exitOK
	case errors.Is(err, errServerResponse):
		fmt.Fprintf(out, "Erro do servidor (%d):\n%s\n", status, body)
		return exitServerError
	default:
		fmt.Fprintf(out, "Sem resposta do servidor: %v\n", err)
		return exitNoResponse
	}
}

// checkLogin faz o POST em <baseURL>/api/login. Falhas de transporte voltam
// como erro comum; respostas >= 400 voltam como errServerResponse.
func checkLogin(client *http.Client, baseURL string, creds domain.LoginRequest) (int, string, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return 0, "", err
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/login"
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("leitura da resposta: %w", err)
	}

	body := prettyJSON(raw)
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, body, errServerResponse
	}
	return resp.StatusCode, body, nil
}

func prettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
