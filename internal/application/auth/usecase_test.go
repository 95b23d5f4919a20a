package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/session"
	"github.com/jhoicas/inventario-ventas/pkg/jwt"
)

type fakeAuth struct {
	res *ports.LoginResult
	err error
}

func (f *fakeAuth) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return f.res, f.err
}

type memSessions struct {
	mu sync.Mutex
	m  map[string]*entity.Session
}

func (s *memSessions) Save(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string]*entity.Session{}
	}
	cp := *sess
	s.m[sess.ID] = &cp
	return nil
}

func (s *memSessions) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[id], nil
}

func (s *memSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type closerSpy struct{ discarded []string }

func (c *closerSpy) Discard(id string) { c.discarded = append(c.discarded, id) }

func token(t *testing.T, userID string, minutes int) string {
	t.Helper()
	tok, err := jwt.Generate("secreto", userID, "vendedor@tienda.co", "backend", minutes)
	require.NoError(t, err)
	return tok
}

func TestLogin_TomaUsuarioDelTokenYAbreSesion(t *testing.T) {
	store := &memSessions{}
	uc := auth.NewAuthUseCase(&fakeAuth{res: &ports.LoginResult{Token: token(t, "42", 60)}}, store, nil, 8*time.Hour, zerolog.Nop())

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " vendedor@tienda.co ", Password: "x"})

	require.NoError(t, err)
	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, "42", out.UserID)
	assert.Equal(t, "vendedor@tienda.co", out.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), out.ExpiresAt, 5*time.Second, "vence con el token")

	s, err := uc.Resolve(context.Background(), out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserID("42"), s.UserID)
	assert.NotEmpty(t, s.Token)
}

func TestLogin_TokenOpacoUsaUsuarioDeLaRespuestaYTTL(t *testing.T) {
	gw := &fakeAuth{res: &ports.LoginResult{Token: "opaco", UserID: "9"}}
	uc := auth.NewAuthUseCase(gw, &memSessions{}, nil, 30*time.Minute, zerolog.Nop())

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "x"})

	require.NoError(t, err)
	assert.Equal(t, "9", out.UserID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), out.ExpiresAt, 5*time.Second)
}

func TestLogin_SinUsuarioIdentificado(t *testing.T) {
	gw := &fakeAuth{res: &ports.LoginResult{Token: "opaco"}}
	uc := auth.NewAuthUseCase(gw, &memSessions{}, nil, time.Hour, zerolog.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "x"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CredencialesRechazadasPorElBackend(t *testing.T) {
	gw := &fakeAuth{err: &domain.RemoteError{Status: 401, Message: "Credenciales inválidas"}}
	uc := auth.NewAuthUseCase(gw, &memSessions{}, nil, time.Hour, zerolog.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "x"})

	require.Error(t, err)
	assert.Equal(t, "Credenciales inválidas", domain.UserMessage(err, ""))
}

func TestLogin_CamposObligatorios(t *testing.T) {
	uc := auth.NewAuthUseCase(&fakeAuth{}, &memSessions{}, nil, time.Hour, zerolog.Nop())

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.co"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_SesionInexistenteOVencida(t *testing.T) {
	store := session.NewMemoryStore()
	closer := &closerSpy{}
	uc := auth.NewAuthUseCase(&fakeAuth{}, store, closer, time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Resolve(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, closer.discarded)

	require.NoError(t, store.Save(ctx, &entity.Session{ID: "vieja", UserID: "1", ExpiresAt: time.Now().Add(-time.Minute)}))
	_, err = uc.Resolve(ctx, "vieja")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, []string{"vieja"}, closer.discarded)

	s, err := store.Get(ctx, "vieja")
	require.NoError(t, err)
	assert.Nil(t, s, "la sesión vencida se borra")

	_, err = uc.Resolve(ctx, "vieja")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "después de borrada ya no existe")
}

func TestSweepExpired_LiberaTerminalesYSesionesVencidas(t *testing.T) {
	store := session.NewMemoryStore()
	terminals := sales.NewRegistry(sales.Gateways{}, nil, zerolog.Nop())
	uc := auth.NewAuthUseCase(&fakeAuth{}, store, terminals, time.Hour, zerolog.Nop())
	ctx := context.Background()

	vieja := &entity.Session{ID: "vieja", UserID: "1", Token: "t1", ExpiresAt: time.Now().Add(-time.Minute)}
	vigente := &entity.Session{ID: "vigente", UserID: "2", Token: "t2", ExpiresAt: time.Now().Add(time.Hour)}
	for _, s := range []*entity.Session{vieja, vigente} {
		require.NoError(t, store.Save(ctx, s))
		terminals.Get(s)
	}
	require.Equal(t, 2, terminals.Len())

	require.NoError(t, uc.SweepExpired(ctx))

	assert.Equal(t, 1, terminals.Len())
	got, err := store.Get(ctx, "vieja")
	require.NoError(t, err)
	assert.Nil(t, got)
	_, err = uc.Resolve(ctx, "vigente")
	assert.NoError(t, err)
}

func TestRunJanitor_TerminaAlCancelarContexto(t *testing.T) {
	terminals := sales.NewRegistry(sales.Gateways{}, nil, zerolog.Nop())
	uc := auth.NewAuthUseCase(&fakeAuth{}, session.NewMemoryStore(), terminals, time.Hour, zerolog.Nop())
	terminals.Get(&entity.Session{ID: "vieja", UserID: "1", ExpiresAt: time.Now().Add(-time.Minute)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return terminals.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunJanitor no terminó al cancelar el contexto")
	}
}

func TestLogout_DescartaTerminalYSesion(t *testing.T) {
	store := &memSessions{}
	closer := &closerSpy{}
	uc := auth.NewAuthUseCase(&fakeAuth{res: &ports.LoginResult{Token: "opaco", UserID: "1"}}, store, closer, time.Hour, zerolog.Nop())
	ctx := context.Background()
	out, err := uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, out.SessionID))

	assert.Equal(t, []string{out.SessionID}, closer.discarded)
	_, err = uc.Resolve(ctx, out.SessionID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
