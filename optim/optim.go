// Package optim provides optimizers for nn models. Optimizers read the
// per-leaf optimizable flags recorded on the model's tape and update only
// the parameters marked trainable.
package optim

import (
	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
	"github.com/LexaHoods/tensorslow/nn"
)

// Optimizer trains a model against paired inputs and targets, returning
// the mean loss of the final epoch.
type Optimizer[T constraints.Float] interface {
	Run(model nn.Model[T], inputs, targets []*matrix.Dense[T]) (float64, error)
}
