// Package phash computes 64-bit perceptual hashes of images.
//
// The hash is a DCT-based pHash: the image is downsampled to 32x32
// grayscale, transformed with a 2-D DCT-II, and the 8x8 low-frequency
// block is thresholded against its median. Visually similar images
// produce hashes with a small Hamming distance, which is the only
// comparison the clustering engine relies on.
//
// Design decision: We implement the hash here rather than depending on an
// image-hashing library because the algorithm is 60 lines of arithmetic
// with no tunable state, and owning it keeps the bit layout stable across
// releases. Hashes are persisted in the stage database, so a silent change
// of bit layout in a third-party dependency would invalidate stored data.
package phash
