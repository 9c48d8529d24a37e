package lobbies

import (
	"math/rand/v2"
	"regexp"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestNewCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{5}$`)
	rng := testRand()

	for i := 0; i < 100; i++ {
		code := newCode(rng, 5)
		if !pattern.MatchString(code) {
			t.Errorf("newCode() = %q, doesn't match expected pattern", code)
		}
	}
}

func TestNewCode_Length(t *testing.T) {
	rng := testRand()
	for _, length := range []int{1, 4, 5, 8} {
		code := newCode(rng, length)
		if len(code) != length {
			t.Errorf("len(newCode(rng, %d)) = %d, want %d", length, len(code), length)
		}
	}
}

func TestNewCode_Deterministic(t *testing.T) {
	a := newCode(rand.New(rand.NewPCG(7, 7)), 5)
	b := newCode(rand.New(rand.NewPCG(7, 7)), 5)
	if a != b {
		t.Errorf("same seed produced different codes: %q vs %q", a, b)
	}
}

func TestNewCode_Uniqueness(t *testing.T) {
	rng := testRand()
	seen := make(map[string]bool)
	dupes := 0
	for i := 0; i < 1000; i++ {
		code := newCode(rng, 5)
		if seen[code] {
			dupes++
		}
		seen[code] = true
	}
	// With 36^5 = 60M combinations, 1000 samples should have essentially no dupes
	if dupes > 2 {
		t.Errorf("too many duplicate codes: %d out of 1000", dupes)
	}
}

func TestRandomLetter_Range(t *testing.T) {
	rng := testRand()
	for i := 0; i < 100; i++ {
		letter := randomLetter(rng)
		if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
			t.Errorf("randomLetter() = %q, want single uppercase letter", letter)
		}
	}
}

func TestRandomLetter_Distribution(t *testing.T) {
	rng := testRand()
	counts := make(map[string]int)
	const trials = 26000
	for i := 0; i < trials; i++ {
		counts[randomLetter(rng)]++
	}

	if len(counts) != 26 {
		t.Fatalf("observed %d distinct letters, want 26", len(counts))
	}
	// Roughly uniform: every letter within 30% of the expected count.
	expected := trials / 26
	for letter, n := range counts {
		if n < expected*7/10 || n > expected*13/10 {
			t.Errorf("letter %s drawn %d times, expected around %d", letter, n, expected)
		}
	}
}
