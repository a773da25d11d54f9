// Package sunspot turns a full-disk solar image into a 72x72 binary thumbnail
// in which sunspots are enlarged in proportion to their size, so that they
// stay visible on a low-resolution e-ink dashboard.
//
// Processing is a pure function of the encoded input: decode, binarize at a
// fixed intensity, derive the disk outline, embiggen the dark regions over
// three erosion/dilation rounds, combine with the outline and downsample
// with nearest-neighbour sampling. Nothing is shared between invocations, so
// a Pipeline may be used from several goroutines at once.
package sunspot
