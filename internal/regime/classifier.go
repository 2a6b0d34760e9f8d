package regime

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"RegimePilot/internal/model"
)

// Fingerprint is the historical percentile profile of one regime: per factor,
// the 25th/50th/75th percentiles of its value while that regime prevailed.
type Fingerprint struct {
	Factors map[string][3]float64 `json:"factors"`
}

// Classifier scores factor snapshots against a set of regime fingerprints.
type Classifier struct {
	fingerprints map[string]Fingerprint
	factorNames  []string
}

// NewClassifier loads fingerprints from a JSON file. A missing, unreadable or
// malformed file is a configuration error, fatal to the run.
func NewClassifier(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}

	var fingerprints map[string]Fingerprint
	if err := json.Unmarshal(data, &fingerprints); err != nil {
		return nil, fmt.Errorf("parse fingerprints: %w", err)
	}
	if len(fingerprints) == 0 {
		return nil, fmt.Errorf("parse fingerprints: no regimes in %s", path)
	}
	for label, fp := range fingerprints {
		for name, p := range fp.Factors {
			if p[0] > p[1] || p[1] > p[2] {
				return nil, fmt.Errorf("parse fingerprints: %s/%s: percentiles not ordered: %v", label, name, p)
			}
		}
	}

	return &Classifier{
		fingerprints: fingerprints,
		factorNames:  model.FactorNames,
	}, nil
}

// Score returns how well the factors match one fingerprint, 0-100. Each
// recognized factor present in both gets a per-factor score; the regime score
// is their arithmetic mean. No overlapping factors yields 0, by definition.
func (c *Classifier) Score(factors model.FactorSnapshot, fp Fingerprint) float64 {
	var sum float64
	var count int

	for _, name := range c.factorNames {
		value, ok := factors[name]
		if !ok {
			continue
		}
		p, ok := fp.Factors[name]
		if !ok {
			continue
		}
		sum += scoreFactor(value, p[0], p[1], p[2])
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// scoreFactor scores one observed value against a (p25, p50, p75) triplet.
// Inside the IQR the score decays linearly from 100 at the median; outside it
// decays from 50 with distance measured from the nearer quartile.
func scoreFactor(value, p25, p50, p75 float64) float64 {
	iqr := p75 - p25

	if p25 <= value && value <= p75 {
		if iqr == 0 {
			return 100
		}
		return 100 * (1 - math.Abs(value-p50)/iqr)
	}

	if iqr <= 0 {
		iqr = 1
	}
	var distance float64
	if value < p25 {
		distance = p25 - value
	} else {
		distance = value - p75
	}
	return math.Max(0, 50-50*distance/iqr)
}

// Classify scores every regime and returns the best match, its confidence
// rounded to one decimal, and all scores ranked descending. Ties on the top
// score are broken lexicographically by label, so the result is deterministic
// regardless of map iteration order.
func (c *Classifier) Classify(factors model.FactorSnapshot) *model.RegimeResult {
	scores := make([]model.RegimeScore, 0, len(c.fingerprints))
	for label, fp := range c.fingerprints {
		scores = append(scores, model.RegimeScore{Label: label, Score: c.Score(factors, fp)})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Label < scores[j].Label
	})

	best := scores[0]
	return &model.RegimeResult{
		Regime:     best.Label,
		Confidence: math.Round(best.Score*10) / 10,
		Scores:     scores,
	}
}

// Labels returns all loaded regime labels, sorted.
func (c *Classifier) Labels() []string {
	labels := make([]string, 0, len(c.fingerprints))
	for label := range c.fingerprints {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
