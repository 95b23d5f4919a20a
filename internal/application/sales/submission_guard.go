package sales

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// Outcome resultado de un intento de envío.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeFailed    Outcome = "failed"
	// Los tres siguientes no son errores: el intento se ignora y solo se registra en el log.
	OutcomeEmptyCart Outcome = "empty_cart"
	OutcomeInFlight  Outcome = "in_flight"
	OutcomeDuplicate Outcome = "duplicate"
)

// SendFunc envía la venta con el token de idempotencia. Se ejecuta con la guarda marcada
// como "enviando", así que lo que haga al terminar bien (vaciar el carrito) ocurre antes de
// que se acepte otro envío.
type SendFunc func(ctx context.Context, sale entity.SaleSubmission, idempotencyKey string) error

// SubmitResult resultado de Submit.
type SubmitResult struct {
	Outcome        Outcome
	IdempotencyKey string
}

// SubmissionGuard evita que una misma acción del usuario genere dos ventas.
//
// Rechaza el carrito vacío, ignora envíos mientras hay uno en curso e ignora un envío
// idéntico (misma descripción y líneas) al último exitoso. Tras un fallo solo se libera la
// marca de envío: el reintento no cuenta como duplicado.
type SubmissionGuard struct {
	log    zerolog.Logger
	newKey func() string

	mu            sync.Mutex
	submitting    bool
	lastSignature string
}

// NewSubmissionGuard crea la guarda; los tokens de idempotencia son UUID v4.
func NewSubmissionGuard(log zerolog.Logger) *SubmissionGuard {
	return &SubmissionGuard{
		log:    log,
		newKey: func() string { return uuid.NewString() },
	}
}

// Submitting indica si hay un envío en curso.
func (g *SubmissionGuard) Submitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitting
}

// Reset olvida la firma del último envío exitoso.
func (g *SubmissionGuard) Reset() {
	g.mu.Lock()
	g.lastSignature = ""
	g.mu.Unlock()
}

// Submit aplica la guarda y, si corresponde, llama a send. El error de send se devuelve tal
// cual con Outcome = failed.
func (g *SubmissionGuard) Submit(ctx context.Context, sale entity.SaleSubmission, send SendFunc) (SubmitResult, error) {
	if len(sale.Lines) == 0 {
		g.log.Debug().Msg("envío ignorado: carrito vacío")
		return SubmitResult{Outcome: OutcomeEmptyCart}, nil
	}
	sig, err := Signature(sale)
	if err != nil {
		return SubmitResult{Outcome: OutcomeFailed}, err
	}

	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		g.log.Info().Msg("envío ignorado: ya hay una venta en curso")
		return SubmitResult{Outcome: OutcomeInFlight}, nil
	}
	if sig == g.lastSignature {
		g.mu.Unlock()
		g.log.Info().Str("signature", sig[:12]).Msg("envío ignorado: venta idéntica a la última registrada")
		return SubmitResult{Outcome: OutcomeDuplicate}, nil
	}
	g.submitting = true
	g.mu.Unlock()

	key := g.newKey()
	err = send(ctx, sale, key)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitting = false
	if err != nil {
		g.log.Warn().Err(err).Str("idempotency_key", key).Msg("falló el registro de la venta")
		return SubmitResult{Outcome: OutcomeFailed, IdempotencyKey: key}, err
	}
	g.lastSignature = sig
	g.log.Info().Str("idempotency_key", key).Int("items", len(sale.Lines)).Msg("venta registrada")
	return SubmitResult{Outcome: OutcomeSubmitted, IdempotencyKey: key}, nil
}

// Signature huella estable de la venta: BLAKE2b-256 del JSON de descripción y líneas.
// La descripción se compara sin espacios al inicio o final.
func Signature(sale entity.SaleSubmission) (string, error) {
	sale.Description = strings.TrimSpace(sale.Description)
	raw, err := json.Marshal(sale)
	if err != nil {
		return "", fmt.Errorf("firma de venta: %w", err)
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
