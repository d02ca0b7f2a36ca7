package optim

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/autodiff"
	"github.com/LexaHoods/tensorslow/internal/matrix"
	"github.com/LexaHoods/tensorslow/nn"
)

// SGD implements plain stochastic gradient descent over the squared-error
// loss ‖model(x) − y‖². For each sample the model's tape is reset, the
// forward pass recorded, and every optimizable leaf updated with
//
//	param = param − lr · gradient
type SGD[T constraints.Float] struct {
	LearningRate T
	Epochs       int
	Logger       zerolog.Logger
}

// NewSGD returns an SGD optimizer logging epoch progress to stderr.
func NewSGD[T constraints.Float](learningRate T, epochs int) *SGD[T] {
	return &SGD[T]{
		LearningRate: learningRate,
		Epochs:       epochs,
		Logger:       zerolog.New(os.Stderr).With().Timestamp().Str("optimizer", "sgd").Logger(),
	}
}

// Run trains the model and returns the mean loss of the final epoch.
func (s *SGD[T]) Run(model nn.Model[T], inputs, targets []*matrix.Dense[T]) (float64, error) {
	if len(inputs) == 0 || len(inputs) != len(targets) {
		return 0, fmt.Errorf("optim: %d inputs and %d targets", len(inputs), len(targets))
	}

	model.ToggleGlobalOptimize(true)

	var meanLoss float64
	for epoch := 0; epoch < s.Epochs; epoch++ {
		var epochLoss float64
		for i := range inputs {
			loss, err := s.step(model, inputs[i], targets[i])
			if err != nil {
				return 0, fmt.Errorf("optim: epoch %d sample %d: %w", epoch, i, err)
			}
			epochLoss += loss
		}
		meanLoss = epochLoss / float64(len(inputs))
		s.Logger.Info().
			Int("epoch", epoch).
			Float64("loss", meanLoss).
			Msg("epoch complete")
	}
	return meanLoss, nil
}

// step runs one forward/backward pass and applies the parameter updates.
func (s *SGD[T]) step(model nn.Model[T], input, target *matrix.Dense[T]) (float64, error) {
	model.Reset()
	tape := model.Tape()

	out, err := model.Compute(tape.Track(input))
	if err != nil {
		return 0, err
	}
	diff, err := autodiff.Sub(out, tape.Track(target))
	if err != nil {
		return 0, err
	}
	loss, err := autodiff.SquaredNorm(diff)
	if err != nil {
		return 0, err
	}

	grad, err := loss.Grad()
	if err != nil {
		return 0, err
	}

	for _, p := range model.Parameters() {
		if tape.Optimizable(p) {
			matrix.AddScaledInPlace(p.Value(), grad.At(p), -s.LearningRate)
		}
	}
	return float64(loss.Value().At(0, 0)), nil
}
