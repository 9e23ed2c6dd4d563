package snake

import "github.com/vovakirdan/retro-snake/internal/config"

// ScoreModel prices pickups. Values shrink by one point for every DecayRate
// cells travelled since the last pickup, down to a floor.
type ScoreModel struct {
	FoodBase    int
	FoodMin     int
	PowerUpBase int
	PowerUpMin  int
	DecayRate   int
}

// DefaultScoreModel returns the standard balance: food 10 (min 1), power-up 20 (min 2), decay every 10 cells.
func DefaultScoreModel() ScoreModel {
	return ScoreModelFromConfig(config.DefaultSnakeConfig().Scoring)
}

// ScoreModelFromConfig builds a score model from the scoring section.
func ScoreModelFromConfig(cfg config.ScoringConfig) ScoreModel {
	return ScoreModel{
		FoodBase:    cfg.FoodBase,
		FoodMin:     cfg.FoodMin,
		PowerUpBase: cfg.PowerUpBase,
		PowerUpMin:  cfg.PowerUpMin,
		DecayRate:   cfg.DecayRate,
	}
}

// FoodValue returns the food value after travelling the given distance.
func (m ScoreModel) FoodValue(travel int) int {
	return m.decay(m.FoodBase, m.FoodMin, travel)
}

// PowerUpValue returns the power-up value after travelling the given distance.
func (m ScoreModel) PowerUpValue(travel int) int {
	return m.decay(m.PowerUpBase, m.PowerUpMin, travel)
}

func (m ScoreModel) decay(base, floor, travel int) int {
	rate := m.DecayRate
	if rate <= 0 {
		rate = 1
	}
	return max(floor, base-max(0, travel)/rate)
}
