// Comando checkpassword compara uma senha com um hash bcrypt.
//
//	go run ./cmd/checkpassword -password 123456 -hash '$2b$10$...'
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "", "senha em texto puro")
	hash := flag.String("hash", "", "hash bcrypt armazenado")
	flag.Parse()

	os.Exit(run(*password, *hash, os.Stdout))
}

// run devolve 0 quando a comparação pôde ser feita (coincidindo ou não) e 1
// quando o hash é malformado.
func run(password, hash string, out io.Writer) int {
	match, err := compare(password, hash)
	if err != nil {
		fmt.Fprintf(out, "Erro ao comparar senha: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "A senha coincide? %t\n", match)
	return 0
}

func compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
