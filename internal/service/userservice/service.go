package userservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
	"seaconnector/internal/pkg/token"
)

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID, userRole, email string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// UserService define o serviço de lógica de negócio para a entidade User:
// registro, autenticação e perfil.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
	metrics  metrics.Recorder

	// dummyHash é comparado quando o email não existe, para que login com
	// email desconhecido e com senha errada custem o mesmo.
	dummyHash []byte
}

// NewService cria uma nova instância do UserService, injetando as dependências.
func NewService(repo domain.UserRepository, tokenSvc TokenService, logger logger.Logger, rec metrics.Recorder) (*UserService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &UserService{
		UserRepo:  repo,
		TokenSvc:  tokenSvc,
		logger:    logger,
		metrics:   rec,
		dummyHash: dummy,
	}, nil
}

// bcrypt só considera os primeiros 72 bytes e recusa senhas maiores.
const maxPasswordBytes = 72

// Register registra um novo usuário no sistema.
// Ele faz o hashing da senha (bcrypt, custo 10) e devolve apenas nome e email.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.UserSummary, error) {
	name := strings.TrimSpace(registration.Name)
	email := domain.NormalizeEmail(registration.Email)

	if name == "" || email == "" || registration.Password == "" {
		s.metrics.RecordRegistration(metrics.OutcomeInvalid)
		return domain.UserSummary{}, apperror.NewValidationError("Nome, email e senha são obrigatórios.")
	}
	if len(registration.Password) > maxPasswordBytes {
		s.metrics.RecordRegistration(metrics.OutcomeInvalid)
		return domain.UserSummary{}, apperror.NewValidationError("Senha deve ter no máximo 72 bytes.")
	}

	// Pré-checagem. A unique do banco continua sendo a garantia final.
	_, err := s.UserRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.metrics.RecordRegistration(metrics.OutcomeDuplicate)
		return domain.UserSummary{}, apperror.NewDuplicateEmailError(email)
	case !isNotFound(err):
		s.metrics.RecordRegistration(metrics.OutcomeError)
		return domain.UserSummary{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		s.metrics.RecordRegistration(metrics.OutcomeError)
		return domain.UserSummary{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	newUser := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.DefaultRole,
	}

	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		var dup *apperror.DuplicateEmailError
		if errors.As(err, &dup) {
			s.metrics.RecordRegistration(metrics.OutcomeDuplicate)
		} else {
			s.metrics.RecordRegistration(metrics.OutcomeError)
		}
		return domain.UserSummary{}, err
	}

	s.metrics.RecordRegistration(metrics.OutcomeSuccess)
	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID})

	return domain.UserSummary{Name: user.Name, Email: user.Email}, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
// Email desconhecido e senha errada produzem o mesmo InvalidCredentialsError.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResult, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		s.metrics.RecordLogin(metrics.OutcomeInvalid)
		return domain.LoginResult{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			s.metrics.RecordLogin(metrics.OutcomeInvalid)
			s.logger.Debug("Login recusado.", nil)
			return domain.LoginResult{}, apperror.NewInvalidCredentialsError()
		}
		s.metrics.RecordLogin(metrics.OutcomeError)
		return domain.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin(metrics.OutcomeInvalid)
		s.logger.Debug("Login recusado.", map[string]interface{}{"user_id": user.ID})
		return domain.LoginResult{}, apperror.NewInvalidCredentialsError()
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role), user.Email)
	if err != nil {
		s.metrics.RecordLogin(metrics.OutcomeError)
		return domain.LoginResult{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.metrics.RecordLogin(metrics.OutcomeSuccess)
	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID})

	return domain.LoginResult{Token: tokenString, User: user.Summary()}, nil
}

// GetProfile busca o usuário identificado pelo token.
func (s *UserService) GetProfile(ctx context.Context, userID string) (domain.UserSummary, error) {
	if userID == "" {
		return domain.UserSummary{}, apperror.NewMissingTokenError()
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.UserSummary{}, err
	}

	return user.Summary(), nil
}

func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}
