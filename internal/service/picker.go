package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"

	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

type NumberPicker interface {
	Pick(rules domain.Rules) ([]int, error)
}

// RandomPicker draws ticket numbers from crypto/rand.
type RandomPicker struct{}

func (RandomPicker) Pick(rules domain.Rules) ([]int, error) {
	span := rules.MaxNumber - rules.MinNumber + 1
	if span < rules.NumberLength {
		return nil, fmt.Errorf("cannot pick %d distinct numbers from %d", rules.NumberLength, span)
	}

	seen := make(map[int]struct{}, rules.NumberLength)
	numbers := make([]int, 0, rules.NumberLength)
	for len(numbers) < rules.NumberLength {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(span)))
		if err != nil {
			return nil, fmt.Errorf("rand.Int -> %w", err)
		}

		v := rules.MinNumber + int(n.Int64())
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		numbers = append(numbers, v)
	}
	sort.Ints(numbers)

	return numbers, nil
}
