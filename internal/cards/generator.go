// Package cards produces randomized sheet content and its fingerprint.
package cards

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"

	"benji/internal/models"
)

// columnRanges partitions 1..90 into five equal-width ranges, one per
// card column (B I N G O).
var columnRanges = [models.GridSize][2]int{
	{1, 18},
	{19, 36},
	{37, 54},
	{55, 72},
	{73, 90},
}

// Generator produces one sheet's payload and its content fingerprint.
type Generator interface {
	Generate() (models.SheetPayload, string, error)
}

// CryptoGenerator draws card numbers from crypto/rand. Sampling is
// uniform without replacement within each column range.
type CryptoGenerator struct{}

// NewCryptoGenerator returns a Generator backed by crypto/rand.
func NewCryptoGenerator() *CryptoGenerator {
	return &CryptoGenerator{}
}

// Generate builds a payload of models.CardsPerSheet cards and returns
// it together with the lowercase hex SHA-256 of its serialized form.
func (g *CryptoGenerator) Generate() (models.SheetPayload, string, error) {
	payload := models.SheetPayload{Cards: make([]models.Card, 0, models.CardsPerSheet)}
	for i := 0; i < models.CardsPerSheet; i++ {
		card, err := generateCard()
		if err != nil {
			return models.SheetPayload{}, "", err
		}
		payload.Cards = append(payload.Cards, card)
	}

	data, err := models.MarshalPayload(payload)
	if err != nil {
		return models.SheetPayload{}, "", err
	}

	return payload, Fingerprint(data), nil
}

// Fingerprint returns the lowercase hex SHA-256 of serialized payload
// bytes.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func generateCard() (models.Card, error) {
	var card models.Card
	for col := 0; col < models.GridSize; col++ {
		values, err := pickUniqueSorted(columnRanges[col][0], columnRanges[col][1], models.GridSize)
		if err != nil {
			return models.Card{}, err
		}
		for row := 0; row < models.GridSize; row++ {
			card.Grid[row][col] = values[row]
		}
	}
	return card, nil
}

// pickUniqueSorted draws count distinct values from [min, max],
// returned ascending.
func pickUniqueSorted(min, max, count int) ([]int, error) {
	if max-min+1 < count {
		return nil, fmt.Errorf("range [%d, %d] too small for %d values", min, max, count)
	}

	seen := make(map[int]struct{}, count)
	for len(seen) < count {
		n, err := randInt(min, max)
		if err != nil {
			return nil, err
		}
		seen[n] = struct{}{}
	}

	values := make([]int, 0, count)
	for n := range seen {
		values = append(values, n)
	}
	sort.Ints(values)
	return values, nil
}

// randInt returns a uniform value in [min, max].
func randInt(min, max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return 0, fmt.Errorf("read random source: %w", err)
	}
	return min + int(n.Int64()), nil
}
