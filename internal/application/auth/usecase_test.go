package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/internal/application/auth"
	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

type memUsers struct{ byID map[string]*entity.User }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.byID[id], nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}

type memCompanies struct{ byID map[string]*entity.Company }

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.byID[id], nil
}

func (m *memCompanies) GetByCUIT(context.Context, string) (*entity.Company, error) { return nil, nil }

func (m *memCompanies) Update(context.Context, *entity.Company) error { return nil }

type memVendors struct{ byID map[string]*entity.Vendor }

func (m *memVendors) Create(_ context.Context, v *entity.Vendor) error {
	m.byID[v.ID] = v
	return nil
}

func (m *memVendors) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	return m.byID[id], nil
}

func (m *memVendors) GetByCompanyAndCUIT(context.Context, string, string) (*entity.Vendor, error) {
	return nil, nil
}

func (m *memVendors) ListByCompany(context.Context, string, int, int) ([]*entity.Vendor, error) {
	return nil, nil
}

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(
		&memUsers{byID: map[string]*entity.User{}},
		&memCompanies{byID: map[string]*entity.Company{"c1": {ID: "c1"}}},
		&memVendors{byID: map[string]*entity.Vendor{"v1": {ID: "v1", CompanyID: "c1"}, "v2": {ID: "v2", CompanyID: "c2"}}},
		auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "presupuestos-api"},
	)
}

func TestRegistroYLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email: " Vendedor@Empresa.com ", Password: "clave-segura", CompanyID: "c1", VendorID: "v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "vendedor@empresa.com", u.Email)
	assert.Equal(t, entity.RoleVendedor, u.Role, "rol por defecto")

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "VENDEDOR@empresa.com", Password: "clave-segura"})
	require.NoError(t, err)

	id, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, "c1", id.CompanyID)
	assert.Equal(t, "v1", id.VendorID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "vendedor@empresa.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegistro_Errores(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	base := dto.RegisterRequest{Email: "a@b.com", Password: "clave-segura", CompanyID: "c1"}

	_, err := uc.RegisterUser(ctx, base)
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, base)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	tests := []struct {
		name string
		edit func(r *dto.RegisterRequest)
		want error
	}{
		{"clave corta", func(r *dto.RegisterRequest) { r.Password = "corta" }, domain.ErrInvalidArgument},
		{"rol desconocido", func(r *dto.RegisterRequest) { r.Role = "root" }, domain.ErrInvalidArgument},
		{"empresa inexistente", func(r *dto.RegisterRequest) { r.CompanyID = "c9" }, domain.ErrNotFound},
		{"vendedor de otra empresa", func(r *dto.RegisterRequest) { r.VendorID = "v2" }, domain.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := dto.RegisterRequest{Email: "nuevo@b.com", Password: "clave-segura", CompanyID: "c1"}
			tt.edit(&in)
			_, err := uc.RegisterUser(ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
