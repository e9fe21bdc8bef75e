// Package pooling scores and ranks prospective exporter buyers for a
// pooled cardamom lot. The score is a weighted sum of four normalized
// components: offered price against a reference price, payment speed
// within a payment window, reputation on a 0-100 scale, and a binary
// logistics-support flag.
package pooling

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"

	"spicehold/internal/config"
	"spicehold/pkg/contracts/domain"
)

// PoolReadyPercent is the fill level at which a pool is considered ready
// to be offered to buyers.
const PoolReadyPercent = 80.0

// Scorer ranks buyer candidates with externally supplied weights.
type Scorer struct {
	cfg      config.MatchingConfig
	validate *validator.Validate
	logger   *slog.Logger
}

// NewScorer creates a scorer from the matching configuration. Weights
// are used exactly as given: they are not validated against each other
// and never renormalized, so operators can deliberately over- or
// under-weight a component.
func NewScorer(cfg config.MatchingConfig, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
}

// Score computes the weighted match score for one candidate. Components
// are normalized before weighting; the payment-speed component goes
// negative when a candidate pays slower than the window, which is
// intentional: slow payers should drag the score down, not floor at zero.
func (s *Scorer) Score(c domain.BuyerCandidate) (float64, error) {
	if err := s.validate.Struct(c); err != nil {
		return 0, fmt.Errorf("score buyer %q: %w", c.Name, err)
	}

	w := s.cfg.Weights
	score := w.Price * (c.PricePerKg / s.cfg.ReferencePrice)
	score += w.PaymentSpeed * (float64(s.cfg.PaymentWindowDays-c.PaymentDays) / float64(s.cfg.PaymentWindowDays))
	score += w.Reputation * (c.Reputation / 100)
	if c.LogisticsSupport {
		score += w.LogisticsSupport
	}
	return score, nil
}

// Rank scores every candidate and returns them best first. Ordering is
// decided on full-precision scores; the Score field on the result is
// rounded to 2 decimals afterwards, so two buyers displaying the same
// rounded score still rank deterministically. The sort is stable: equal
// full-precision scores keep their input order.
func (s *Scorer) Rank(candidates []domain.BuyerCandidate) ([]domain.ScoredBuyer, error) {
	scored := make([]domain.ScoredBuyer, 0, len(candidates))
	for _, c := range candidates {
		score, err := s.Score(c)
		if err != nil {
			return nil, err
		}
		scored = append(scored, domain.ScoredBuyer{BuyerCandidate: c, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	for i := range scored {
		scored[i].Score = math.Round(scored[i].Score*100) / 100
	}

	s.logger.Info("ranked buyer candidates", slog.Int("count", len(scored)))
	return scored, nil
}

// PoolReady reports whether the pool has collected enough quantity to go
// to market.
func PoolReady(p domain.Pool) bool {
	return p.FillPercent() >= PoolReadyPercent
}
