package poisson

import (
	"math/rand"
	"testing"

	"github.com/san-kum/poisson/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResidual_LinearFieldIsHarmonic(t *testing.T) {
	u, _ := grid.New(5, 5)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			u.Set(float64(i+2*j), i, j)
		}
	}
	phi, _ := grid.New(5, 5)

	r, err := NewResidual(phi, BoundsMask(u.Shape()), []float64{1, 1})
	require.NoError(t, err)

	loss, resid := r.Evaluate(u.Data)
	assert.Equal(t, 0.0, loss)
	for _, v := range resid {
		assert.Equal(t, 0.0, v)
	}
}

func TestResidual_SingleFreeCell(t *testing.T) {
	u, _ := grid.New(3, 3)
	u.Set(1, 1, 1)
	phi, _ := grid.New(3, 3)

	r, err := NewResidual(phi, BoundsMask(u.Shape()), []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 4.0, r.Denom())
	assert.Equal(t, []float64{0.25, 0.25}, r.Coeffs())

	loss, grad := r.Cost(u.Data)
	assert.Equal(t, 1.0, loss)
	assert.Equal(t, 2.0, grad[u.Index(1, 1)])
}

func TestResidual_EdgeReplication1D(t *testing.T) {
	u := []float64{1, 4, 9}
	phi, _ := grid.New(3)

	// nothing fixed: boundary cells see their own value outside the domain
	r, err := NewResidual(phi, make([]bool, 3), []float64{1})
	require.NoError(t, err)

	_, resid := r.Evaluate(u)
	assert.InDelta(t, 1-(1+4)/2.0, resid[0], 1e-15)
	assert.InDelta(t, 4-(1+9)/2.0, resid[1], 1e-15)
	assert.InDelta(t, 9-(4+9)/2.0, resid[2], 1e-15)
}

func TestResidual_SourceTerm(t *testing.T) {
	phi, _ := grid.Full(2, 3)
	u := []float64{0, 0, 0}
	dx := []float64{0.5}

	r, err := NewResidual(phi, []bool{true, false, true}, dx)
	require.NoError(t, err)

	// denom = 2/dx² = 8, residual = phi/denom
	_, resid := r.Evaluate(u)
	assert.Equal(t, []float64{0, 0.25, 0}, resid)
}

func TestResidual_FixedCellsCarryNoGradient(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	shape := []int{6, 7, 4}
	phi, _ := grid.New(shape...)
	u, _ := grid.New(shape...)
	fixed := make([]bool, u.Len())
	for i := range u.Data {
		u.Data[i] = rng.NormFloat64()
		phi.Data[i] = rng.NormFloat64()
		fixed[i] = rng.Intn(3) == 0
	}

	r, err := NewResidual(phi, fixed, []float64{0.1, 0.2, 0.3})
	require.NoError(t, err)

	loss, resid := r.Evaluate(u.Data)
	costLoss, grad := r.Cost(u.Data)
	assert.Equal(t, loss, costLoss)

	sum := 0.0
	for i := range resid {
		sum += resid[i] * resid[i]
		assert.Equal(t, 2*resid[i], grad[i])
		if fixed[i] {
			assert.Equal(t, 0.0, resid[i])
			assert.Equal(t, 0.0, grad[i])
		}
	}
	assert.InDelta(t, sum, loss, 1e-9*sum)
}

func TestResidual_PureEvaluation(t *testing.T) {
	shape := []int{70, 80}
	phi, _ := grid.Full(1, shape...)
	u, _ := grid.New(shape...)
	for i := range u.Data {
		u.Data[i] = float64(i % 13)
	}
	before := u.Clone()

	r, err := NewResidual(phi, BoundsMask(shape), []float64{0.1, 0.1})
	require.NoError(t, err)

	l1, g1 := r.Cost(u.Data)
	l2, g2 := r.Cost(u.Data)
	assert.Equal(t, l1, l2)
	assert.Equal(t, g1, g2)
	assert.Equal(t, before.Data, u.Data)
}

func TestNewResidual_Errors(t *testing.T) {
	phi, _ := grid.New(4, 4)
	mask := BoundsMask(phi.Shape())

	_, err := NewResidual(phi, mask[:3], []float64{1, 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewResidual(phi, mask, []float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewResidual(phi, mask, []float64{1, 0})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewResidual(phi, mask, []float64{-1, 1})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewResidual(nil, mask, []float64{1, 1})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
