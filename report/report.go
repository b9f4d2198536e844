// Package report renders detection results for people and for programs.
package report

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/detect"
	"github.com/renproject/shamirvote/share"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Text writes the reconstructed secret followed by the valid and the possibly
// corrupt shares, one "x:y" per line.
func Text(w io.Writer, result detect.Result) error {
	ew := &errWriter{w: w}
	ew.printf("Reconstructed Secret: %v\n", result.Secret)
	ew.printf("Votes: %d of %d subsets", result.Votes, result.Subsets)
	if result.Skipped > 0 {
		ew.printf(" (%d degenerate skipped)", result.Skipped)
	}
	ew.printf("\n\nValid Shares:\n")
	ew.shares(result.Valid)
	ew.printf("\nPossibly Corrupt Shares:\n")
	if len(result.Corrupt) == 0 {
		ew.printf("none\n")
	}
	ew.shares(result.Corrupt)
	return errors.Wrap(ew.err, "write text report")
}

// Share is the JSON form of a share. Y is a decimal string so that values
// beyond 2^53 survive JSON parsers that use floats.
type Share struct {
	X uint32 `json:"x"`
	Y string `json:"y"`
}

// Document is the JSON form of a result.
type Document struct {
	Secret  string  `json:"secret"`
	Valid   []Share `json:"valid"`
	Corrupt []Share `json:"corrupt"`
	Votes   uint64  `json:"votes"`
	Subsets uint64  `json:"subsets"`
	Skipped uint64  `json:"skipped"`
}

// NewDocument converts a result into its JSON form.
func NewDocument(result detect.Result) Document {
	secret := ""
	if result.Secret != nil {
		secret = result.Secret.String()
	}
	return Document{
		Secret:  secret,
		Valid:   jsonShares(result.Valid),
		Corrupt: jsonShares(result.Corrupt),
		Votes:   result.Votes,
		Subsets: result.Subsets,
		Skipped: result.Skipped,
	}
}

// JSON writes the result as an indented JSON document.
func JSON(w io.Writer, result detect.Result) error {
	data, err := json.MarshalIndent(NewDocument(result), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal json report")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write json report")
	}
	return nil
}

func jsonShares(shares share.Shares) []Share {
	out := make([]Share, len(shares))
	for i, s := range shares {
		out[i] = Share{X: s.X, Y: s.Y.String()}
	}
	return out
}

// errWriter remembers the first write error and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) shares(shares share.Shares) {
	for _, s := range shares {
		ew.printf("%v\n", s)
	}
}
