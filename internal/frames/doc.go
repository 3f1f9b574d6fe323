// Package frames lists the image frames of one subject folder and extracts the
// frame number each file name carries.
//
// Frames are ordered by file name. The frame number is the second-to-last
// dash-delimited token of the name once its extension is removed:
//
//	fly07-cam2-00042-a.jpg  →  42
//
// Lexicographic file order is assumed to match frame-number order; nothing in
// this package checks that.
package frames
