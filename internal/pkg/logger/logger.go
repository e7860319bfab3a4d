package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
	// With devolve um Logger que acrescenta os campos a todas as entradas.
	With(fields map[string]interface{}) Logger
}

// SlogLogger é a implementação concreta da interface Logger sobre log/slog,
// com saída JSON estruturada.
type SlogLogger struct {
	l *slog.Logger
}

// NewLogger cria e retorna uma nova instância do Logger escrevendo em stdout.
// Esta função é chamada no main.go.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stdout)
}

// NewLoggerWithWriter cria um Logger JSON que escreve no writer informado.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &SlogLogger{l: slog.New(handler)}
}

// NewNopLogger descarta todas as entradas. Útil em testes.
func NewNopLogger() Logger {
	return NewLoggerWithWriter("error", io.Discard)
}

// parseLevel converte o nível textual da configuração; desconhecido vira info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func toArgs(fields map[string]interface{}) []any {
	args := make([]any, 0, len(fields))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return args
}

// Implementações da Interface Logger

func (s *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	s.l.Log(context.Background(), slog.LevelDebug, msg, toArgs(fields)...)
}

func (s *SlogLogger) Info(msg string, fields map[string]interface{}) {
	s.l.Log(context.Background(), slog.LevelInfo, msg, toArgs(fields)...)
}

func (s *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	s.l.Log(context.Background(), slog.LevelWarn, msg, toArgs(fields)...)
}

func (s *SlogLogger) Error(msg string, err error) {
	if err != nil {
		s.l.Error(msg, slog.String("error", err.Error()))
		return
	}
	s.l.Error(msg)
}

// Fatal registra o erro e encerra o processo.
func (s *SlogLogger) Fatal(msg string, err error) {
	s.Error(msg, err)
	os.Exit(1)
}

func (s *SlogLogger) With(fields map[string]interface{}) Logger {
	return &SlogLogger{l: s.l.With(toArgs(fields)...)}
}
