package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/application/usecase"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
	"github.com/jhoicas/Presupuestos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	vendorRepo  repository.VendorRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, vendorRepo repository.VendorRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, vendorRepo: vendorRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. Devuelve ErrEmailAlreadyExists si el email ya existe en esa company.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email, err := guard.Check("email", in.Email, guard.TrimLower, guard.Required, guard.MaxLen(150))
	if err != nil {
		return nil, err
	}
	if _, err := guard.Check("password", in.Password, nil, guard.LenBetween(8, 72)); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	if _, err := guard.Check("role", role, nil, guard.OneOf(entity.RoleAdmin, entity.RoleVendedor, entity.RoleAprobador)); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmailAndCompany(ctx, email, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound // empresa no existe
	}
	if in.VendorID != "" {
		v, err := uc.vendorRepo.GetByID(ctx, in.VendorID)
		if err != nil {
			return nil, err
		}
		if v == nil || v.CompanyID != in.CompanyID {
			return nil, domain.NewValidationError("vendorId", "no pertenece a la empresa")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		VendorID:     in.VendorID,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return usecase.EntityToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, guard.TrimLower(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Identity{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		VendorID:  user.VendorID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.EntityToUserResponse(user),
	}, nil
}
