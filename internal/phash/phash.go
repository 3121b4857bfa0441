package phash

import (
	"fmt"
	"image"
	"math"
	"math/bits"
	"sort"
	"strconv"

	"golang.org/x/image/draw"
)

// dctSize is the side length of the grayscale grid the DCT runs over.
// hashSize is the side length of the low-frequency block that becomes
// the hash. 32 and 8 are the conventional pHash parameters.
const (
	dctSize  = 32
	hashSize = 8
)

// Hash is a 64-bit perceptual hash. The zero value is a valid hash
// (an all-dark image); equality of hashes does not imply identical
// images, only visual similarity within distance zero.
type Hash uint64

// Distance returns the Hamming distance between two hashes, i.e. the
// number of differing bits. The range is 0 through 64.
func (h Hash) Distance(other Hash) int {
	return bits.OnesCount64(uint64(h ^ other))
}

// String returns the hash as 16 lowercase hex digits.
func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Parse converts a hex string produced by String back into a Hash.
func Parse(s string) (Hash, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid perceptual hash %q: %w", s, err)
	}
	return Hash(v), nil
}

// FromImage computes the perceptual hash of a decoded image.
// The input is scaled to 32x32, converted to grayscale, transformed
// with a 2-D DCT-II, and the top-left 8x8 coefficient block is
// thresholded against its median: coefficients above the median
// become set bits, packed row-major from the most significant bit.
func FromImage(img image.Image) Hash {
	gray := grayscale(img)
	coeffs := dct2D(gray)

	// Top-left 8x8 block holds the lowest frequencies, including the
	// DC term. The median threshold follows the reference pHash.
	block := make([]float64, 0, hashSize*hashSize)
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			block = append(block, coeffs[y][x])
		}
	}
	med := median(block)

	var h Hash
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			if coeffs[y][x] > med {
				h |= 1 << (63 - (y*hashSize + x))
			}
		}
	}
	return h
}

// grayscale scales the image to dctSize x dctSize and returns the
// luminance plane as floats.
func grayscale(img image.Image) [][]float64 {
	scaled := image.NewRGBA(image.Rect(0, 0, dctSize, dctSize))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := make([][]float64, dctSize)
	for y := 0; y < dctSize; y++ {
		out[y] = make([]float64, dctSize)
		for x := 0; x < dctSize; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			// ITU-R BT.601 luma weights; channels are 16-bit here.
			out[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return out
}

// dct2D applies a DCT-II along rows and then columns.
//
// The naive transform is O(n^3) over a 32x32 grid, which is ~65k
// multiply-adds per image. That is negligible next to image decoding,
// so we do not bother with a fast DCT.
func dct2D(grid [][]float64) [][]float64 {
	n := len(grid)
	rows := make([][]float64, n)
	for y := 0; y < n; y++ {
		rows[y] = dct1D(grid[y])
	}

	out := make([][]float64, n)
	for y := 0; y < n; y++ {
		out[y] = make([]float64, n)
	}
	col := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = rows[y][x]
		}
		transformed := dct1D(col)
		for y := 0; y < n; y++ {
			out[y][x] = transformed[y]
		}
	}
	return out
}

// dct1D computes an unnormalized DCT-II of one row or column.
// Normalization is irrelevant: the hash only compares coefficients
// against their own median.
func dct1D(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += in[i] * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		out[k] = sum
	}
	return out
}

// median returns the median of the values. The input slice is sorted
// in place.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
