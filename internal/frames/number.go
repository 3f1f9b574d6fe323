package frames

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Iron-Ham/framelabel/internal/errors"
)

const (
	// Delimiter separates the tokens of a frame file name.
	Delimiter = "-"
	// numberTokenFromEnd is the position of the frame-number token counted
	// from the end of the name (1 = last token).
	numberTokenFromEnd = 2
	// MaxNumber is the largest frame number accepted, in either sign.
	MaxNumber = math.MaxInt32
)

// FrameNumber extracts the frame number embedded in a frame file name.
// Integral tokens ("42", "0042") parse directly; decimal tokens ("42.0", "42.7")
// are truncated toward zero. Any other token, or a number beyond MaxNumber,
// is an ErrMalformedFilename.
func FrameNumber(name string) (int, error) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	tokens := strings.Split(stem, Delimiter)
	if len(tokens) < numberTokenFromEnd {
		return 0, errors.NewFrameError("frame number token missing", errors.ErrMalformedFilename).
			WithFile(base)
	}

	token := strings.TrimSpace(tokens[len(tokens)-numberTokenFromEnd])
	if token == "" {
		return 0, errors.NewFrameError("frame number token empty", errors.ErrMalformedFilename).
			WithFile(base)
	}

	f, err := strconv.ParseFloat(token, 64)
	outOfRange := errors.Is(err, strconv.ErrRange)
	if (err != nil && !outOfRange) || math.IsNaN(f) || (math.IsInf(f, 0) && !outOfRange) {
		return 0, errors.NewFrameError("frame number token not numeric", errors.ErrMalformedFilename).
			WithFile(base).
			WithToken(token)
	}
	if math.Abs(math.Trunc(f)) > MaxNumber {
		return 0, errors.NewFrameError("frame number out of range", errors.ErrMalformedFilename).
			WithFile(base).
			WithToken(token)
	}
	if n, err := strconv.Atoi(token); err == nil {
		return n, nil
	}
	return int(f), nil
}
