package sales_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

func sampleSale(desc string) entity.SaleSubmission {
	return entity.SaleSubmission{
		Description: desc,
		Lines: []entity.SaleSubmissionLine{
			{PresentationID: "A", ProductID: "P1", QuantityBoxes: 2, DiscountAmount: dec("2380")},
		},
	}
}

type sendCounter struct {
	calls int
	keys  []string
	err   error
}

func (s *sendCounter) send(_ context.Context, _ entity.SaleSubmission, key string) error {
	s.calls++
	s.keys = append(s.keys, key)
	return s.err
}

func TestSubmissionGuard_VentaIdenticaAlUltimoExitoSeIgnora(t *testing.T) {
	g := sales.NewSubmissionGuard(zerolog.Nop())
	sc := &sendCounter{}
	ctx := context.Background()

	r1, err := g.Submit(ctx, sampleSale("venta"), sc.send)
	require.NoError(t, err)
	assert.Equal(t, sales.OutcomeSubmitted, r1.Outcome)

	r2, err := g.Submit(ctx, sampleSale("venta"), sc.send)
	require.NoError(t, err)
	assert.Equal(t, sales.OutcomeDuplicate, r2.Outcome)
	assert.Equal(t, 1, sc.calls)

	r3, err := g.Submit(ctx, sampleSale("otra venta"), sc.send)
	require.NoError(t, err)
	assert.Equal(t, sales.OutcomeSubmitted, r3.Outcome)
	assert.Equal(t, 2, sc.calls)
	assert.NotEqual(t, sc.keys[0], sc.keys[1])
}

func TestSubmissionGuard_FalloNoGuardaFirma(t *testing.T) {
	g := sales.NewSubmissionGuard(zerolog.Nop())
	sc := &sendCounter{err: assert.AnError}
	ctx := context.Background()

	r, err := g.Submit(ctx, sampleSale("venta"), sc.send)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, sales.OutcomeFailed, r.Outcome)
	assert.False(t, g.Submitting())

	sc.err = nil
	r, err = g.Submit(ctx, sampleSale("venta"), sc.send)
	require.NoError(t, err)
	assert.Equal(t, sales.OutcomeSubmitted, r.Outcome)
	assert.Equal(t, 2, sc.calls)
}

func TestSubmissionGuard_CarritoVacioSeRechaza(t *testing.T) {
	g := sales.NewSubmissionGuard(zerolog.Nop())
	sc := &sendCounter{}

	r, err := g.Submit(context.Background(), entity.SaleSubmission{}, sc.send)

	require.NoError(t, err)
	assert.Equal(t, sales.OutcomeEmptyCart, r.Outcome)
	assert.Zero(t, sc.calls)
}

func TestSubmissionGuard_ResetPermiteRepetirVenta(t *testing.T) {
	g := sales.NewSubmissionGuard(zerolog.Nop())
	sc := &sendCounter{}
	ctx := context.Background()

	_, err := g.Submit(ctx, sampleSale("venta"), sc.send)
	require.NoError(t, err)
	g.Reset()

	r, err := g.Submit(ctx, sampleSale("venta"), sc.send)
	require.NoError(t, err)
	assert.Equal(t, sales.OutcomeSubmitted, r.Outcome)
}

func TestSignature_Estable(t *testing.T) {
	a, err := sales.Signature(sampleSale("venta"))
	require.NoError(t, err)
	b, err := sales.Signature(sampleSale(" venta "))
	require.NoError(t, err)
	c, err := sales.Signature(sampleSale("venta 2"))
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
