package portfolio

import "github.com/STTM-NSU/trading-api/internal/model"

// Calculate folds filled orders, oldest first, into a fresh State. Each order goes to the first
// strategy that applies to it; orders no strategy applies to are skipped.
func Calculate(orders []model.Order, quotes Quotes, strategies ...ProcessingStrategy) State {
	if len(strategies) == 0 {
		strategies = DefaultProcessingStrategies()
	}

	state := NewState()
	for _, order := range orders {
		for _, s := range strategies {
			if s.AppliesTo(order) {
				state = s.Process(state, order, quotes)
				break
			}
		}
	}
	return state
}
