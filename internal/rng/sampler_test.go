package rng

import (
	"errors"
	"math"
	"testing"
)

func TestBuildPool(t *testing.T) {
	t.Run("rejects an empty pool", func(t *testing.T) {
		_, err := BuildPool(nil)
		if !errors.Is(err, ErrEmptyPool) {
			t.Fatalf("expected ErrEmptyPool, got %v", err)
		}
	})

	t.Run("rejects a pool of all zero weights", func(t *testing.T) {
		_, err := BuildPool([]int{0, 0, 0})
		if !errors.Is(err, ErrEmptyPool) {
			t.Fatalf("expected ErrEmptyPool, got %v", err)
		}
	})

	t.Run("rejects negative weights", func(t *testing.T) {
		_, err := BuildPool([]int{3, -1, 2})
		if err == nil {
			t.Fatal("expected an error for a negative weight")
		}
		if errors.Is(err, ErrEmptyPool) {
			t.Fatal("negative weight should not be reported as an empty pool")
		}
	})

	t.Run("sums the total weight", func(t *testing.T) {
		pool, err := BuildPool([]int{10, 1, 1, 1, 1, 1, 1, 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pool.TotalWeight() != 17 {
			t.Fatalf("expected total weight 17, got %d", pool.TotalWeight())
		}
	})
}

func TestPick(t *testing.T) {
	pool, err := BuildPool([]int{10, 1, 1, 1, 1, 1, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("maps rolls to index ranges", func(t *testing.T) {
		cases := []struct {
			roll int64
			want int
		}{
			{0, 0},
			{9, 0},
			{10, 1},
			{11, 2},
			{16, 7},
		}
		for _, tc := range cases {
			got, err := pool.Pick(tc.roll)
			if err != nil {
				t.Fatalf("Pick(%d): unexpected error: %v", tc.roll, err)
			}
			if got != tc.want {
				t.Errorf("Pick(%d) = %d, want %d", tc.roll, got, tc.want)
			}
		}
	})

	t.Run("rejects out-of-range rolls", func(t *testing.T) {
		if _, err := pool.Pick(-1); err == nil {
			t.Error("expected an error for roll -1")
		}
		if _, err := pool.Pick(17); err == nil {
			t.Error("expected an error for roll equal to the total weight")
		}
	})

	t.Run("never lands on a zero-weight entry", func(t *testing.T) {
		p, err := BuildPool([]int{0, 5, 0, 3, 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for roll := int64(0); roll < p.TotalWeight(); roll++ {
			idx, err := p.Pick(roll)
			if err != nil {
				t.Fatalf("Pick(%d): unexpected error: %v", roll, err)
			}
			if idx != 1 && idx != 3 {
				t.Fatalf("Pick(%d) landed on zero-weight index %d", roll, idx)
			}
		}
	})

	t.Run("replays deterministically", func(t *testing.T) {
		roll, err := pool.Roll()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first, err := pool.Pick(roll)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 0; i < 10; i++ {
			again, err := pool.Pick(roll)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if again != first {
				t.Fatalf("replaying roll %d produced %d, want %d", roll, again, first)
			}
		}
	})
}

func TestDraw(t *testing.T) {
	t.Run("single entry always wins", func(t *testing.T) {
		pool, err := BuildPool([]int{7})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 0; i < 50; i++ {
			idx, roll, err := pool.Draw()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx != 0 {
				t.Fatalf("expected index 0, got %d", idx)
			}
			if roll < 0 || roll >= 7 {
				t.Fatalf("roll %d out of range [0, 7)", roll)
			}
		}
	})

	t.Run("frequencies track weights", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping distribution test in short mode")
		}

		weights := []int{10, 1, 1, 1, 1, 1, 1, 1}
		pool, err := BuildPool(weights)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		const draws = 100000
		counts := make([]int, len(weights))
		for i := 0; i < draws; i++ {
			idx, _, err := pool.Draw()
			if err != nil {
				t.Fatalf("draw %d: unexpected error: %v", i, err)
			}
			counts[idx]++
		}

		total := float64(pool.TotalWeight())
		for i, w := range weights {
			expected := float64(draws) * float64(w) / total
			p := float64(w) / total
			// Six standard deviations of the binomial count
			tolerance := 6 * math.Sqrt(float64(draws)*p*(1-p))
			if math.Abs(float64(counts[i])-expected) > tolerance {
				t.Errorf("index %d won %d times, expected %.0f (tolerance %.0f)",
					i, counts[i], expected, tolerance)
			}
		}
	})
}
