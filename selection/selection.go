// Package selection implements the entropy-driven choice primitives the
// generator consumes to turn a finite byte buffer into a deterministic
// sequence of decisions. Every exported method here consumes bytes from
// the underlying buffer; two Cursors fed the same buffer and driven
// through the same call sequence always return the same values.
package selection

import (
	"encoding/binary"
	"errors"
	"math"
	"math/big"
	"math/rand"
)

// ErrOutOfData is returned once the buffer cannot satisfy the next
// request. Callers must treat this as "incomplete generation", not a
// bug: it is the normal way a too-short buffer ends a run.
var ErrOutOfData = errors.New("selection: out of entropy")

// Cursor is a forward-only reader over a byte buffer that turns raw
// bytes into constrained choices. It owns no other state and is safe to
// discard once generation fails or completes.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for sequential entropy consumption. buf is not
// copied; callers must not mutate it while the Cursor is in use.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the number of unconsumed bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

func (c *Cursor) take(n int) ([]byte, error) {
	if c.Len() < n {
		// Mirrors arbitrary::Unstructured's fallback: pad with zero bytes
		// instead of failing outright when there's at least one byte left,
		// but a fully drained cursor is a hard stop.
		if c.Len() == 0 && n > 0 {
			return nil, ErrOutOfData
		}
		avail := c.buf[c.pos:]
		c.pos = len(c.buf)
		out := make([]byte, n)
		copy(out, avail)
		return out, nil
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// IntInRange returns a value in [lo, hi], consuming the natural byte
// width needed to cover the range.
func (c *Cursor) IntInRange(lo, hi int) (int, error) {
	if lo > hi {
		return 0, errors.New("selection: invalid range")
	}
	if lo == hi {
		return lo, nil
	}
	span := uint64(hi - lo + 1)
	width := byteWidth(span)
	b, err := c.take(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return lo + int(v%span), nil
}

func byteWidth(span uint64) int {
	switch {
	case span <= 1<<8:
		return 1
	case span <= 1<<16:
		return 2
	case span <= 1<<32:
		return 4
	default:
		return 8
	}
}

// Choose returns a uniformly selected element from items, which must be
// non-empty.
func Choose[T any](c *Cursor, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, errors.New("selection: choose from empty slice")
	}
	idx, err := c.IntInRange(0, len(items)-1)
	if err != nil {
		return zero, err
	}
	return items[idx], nil
}

// Ratio returns true with probability num/den.
func (c *Cursor) Ratio(num, den int) (bool, error) {
	if den <= 0 || num < 0 || num > den {
		return false, errors.New("selection: invalid ratio")
	}
	v, err := c.IntInRange(1, den)
	if err != nil {
		return false, err
	}
	return v <= num, nil
}

// Bool consumes one byte of entropy and returns an unbiased boolean.
func (c *Cursor) Bool() (bool, error) {
	v, err := c.IntInRange(0, 1)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// Uint8/Uint16/Uint32/Uint64 consume exactly their natural width and
// return the bytes interpreted as a big-endian unsigned integer. These
// back numeric-literal generation, where the fuzzer's raw bytes should
// map as directly as possible onto the literal's value.

func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) Uint64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Uint128 and Uint256 consume 16/32 raw bytes respectively and return
// them as a big.Int, matching the width of the target language's widest
// integer literals.
func (c *Cursor) Uint128() (*big.Int, error) {
	b, err := c.take(16)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

func (c *Cursor) Uint256() (*big.Int, error) {
	b, err := c.take(32)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// Bytes consumes and returns n raw bytes verbatim, used for
// byte-string/hex-string vector literals.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.take(n)
}

// RandomNumber biases integer selection toward a "sane" size while still
// occasionally exploring the full legal range, so a fuzzer driving this
// generator spends most of its budget near realistic sizes without ever
// losing the ability to construct large structures.
type RandomNumber struct {
	Min, Target, Max int
}

// defaultThreshold, defaultAlpha and defaultBeta pin the exact shape
// used by the reference generator this package reimplements: 99% of
// draws land in the "small" regime, sampled from a left-skewed
// Beta(6, 9) mapped onto [Min, 2*Target]; the remaining 1% are drawn
// uniformly from [2*Target, Max].
const (
	defaultThreshold = 99
	defaultAlpha     = 6.0
	defaultBeta      = 9.0
)

// NewRandomNumber validates min <= target <= max and returns a
// RandomNumber selector.
func NewRandomNumber(min, target, max int) (RandomNumber, error) {
	if !(min <= target && target <= max) {
		return RandomNumber{}, errors.New("selection: require min <= target <= max")
	}
	return RandomNumber{Min: min, Target: target, Max: max}, nil
}

// Select draws a value per the distribution described above.
func (r RandomNumber) Select(c *Cursor) (int, error) {
	small, err := c.Ratio(defaultThreshold, 100)
	if err != nil {
		return 0, err
	}
	if small {
		return r.selectSmall(c)
	}
	return r.selectLarge(c)
}

func (r RandomNumber) selectSmall(c *Cursor) (int, error) {
	seed, err := c.Uint64()
	if err != nil {
		return 0, err
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	value := sampleBeta(rng, defaultAlpha, defaultBeta)

	rangeWidth := float64(2*r.Target - r.Min)
	mapped := value*rangeWidth + float64(r.Min)
	return int(math.Round(mapped)), nil
}

func (r RandomNumber) selectLarge(c *Cursor) (int, error) {
	return c.IntInRange(2*r.Target, r.Max)
}

// sampleBeta draws from Beta(alpha, beta) via two independent Gamma(·, 1)
// draws: X/(X+Y) with X ~ Gamma(alpha), Y ~ Gamma(beta). No dependency in
// this repository's stack ships a Beta/Gamma sampler (the pack's
// third-party surface covers persistence, transport, and observability,
// not statistical distributions), so this uses the standard
// Marsaglia-Tsang Gamma method directly against math/rand — the same
// algorithm the original's rand_distr crate implements internally.
func sampleBeta(rng *rand.Rand, alpha, beta float64) float64 {
	x := sampleGamma(rng, alpha)
	y := sampleGamma(rng, beta)
	if x+y == 0 {
		return 0
	}
	return x / (x + y)
}

func sampleGamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return sampleGamma(rng, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		x2 := x * x
		if u < 1-0.0331*x2*x2 {
			return d * v
		}
		if math.Log(u) < 0.5*x2+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
