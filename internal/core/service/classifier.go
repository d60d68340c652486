package service

import (
	"context"
	"math/rand/v2"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

var (
	safeVerdict = domain.Verdict{
		ClassificationType: "Agaricus bisporus (Button Mushroom)",
		IsSafe:             true,
		Description:        "The button mushroom is one of the most commonly cultivated mushrooms worldwide. It has a mild flavor and is safe to eat both raw and cooked.",
	}
	toxicVerdict = domain.Verdict{
		ClassificationType: "Amanita phalloides (Death Cap)",
		IsSafe:             false,
		Description:        "The death cap is one of the most poisonous mushrooms known. Consumption can lead to severe liver damage and can be fatal. It contains amatoxins that are not destroyed by cooking.",
	}
)

// RandomClassifier stands in for a real model: a coin flip between two
// reference species with confidence in [0.85, 0.95).
type RandomClassifier struct {
	float func() float64
}

func NewRandomClassifier() *RandomClassifier {
	return &RandomClassifier{float: rand.Float64}
}

func (c *RandomClassifier) Classify(_ context.Context, _ *domain.Image) (domain.Verdict, error) {
	v := toxicVerdict
	if c.float() > 0.5 {
		v = safeVerdict
	}
	v.Confidence = 0.85 + c.float()*0.1
	return v, nil
}
