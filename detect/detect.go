// Package detect reconstructs a secret from shares that may have been
// tampered with, and works out which shares can be trusted.
//
// Every k-subset of the n input shares is interpolated. The candidate secret
// produced by the most subsets wins, ties going to the numerically lowest
// candidate, and the shares that took part in subsets producing the winner
// are reported as valid. All other shares are reported as corrupt.
//
// The search is exhaustive and costs C(n, k) interpolations of k shares
// each, which is O(C(n, k) * k^2) field operations. It stays interactive up
// to around a million subsets (C(24, 12) is about 2.7 million); use
// WithMaxSubsets to refuse larger inputs and DetectParallel to spread the
// work over several cores.
//
// Recovery is only meaningful when honest subsets outvote the rest. With c
// tampered shares there are C(n-c, k) honest subsets, each voting for the
// true secret, while a subset containing a tampered share votes for an
// essentially random candidate. If C(n-c, k) < 2 no candidate is agreed on
// by two subsets and the run fails with ErrUndecidable.
package detect

import (
	"context"
	"math/big"
	"runtime"

	"github.com/Laisky/zap"
	"github.com/pkg/errors"
	"github.com/renproject/shamirvote/combin"
	"github.com/renproject/shamirvote/field"
	"github.com/renproject/shamirvote/interp"
	"github.com/renproject/shamirvote/share"
	"golang.org/x/sync/errgroup"
)

// Detect returns the majority secret of the shares for threshold k, together
// with the partition of the shares into valid and corrupt ones.
//
// Errors are returned, before any subset is evaluated, if k is not positive
// (ErrInvalidThreshold), if there are fewer than k shares
// (ErrInsufficientShares), if a share is not a valid field element
// (ErrMalformedShare) or if there are more subsets than allowed
// (ErrTooManySubsets). A subset with duplicate x coordinates fails the run
// with interp.ErrDuplicateX unless SkipDegenerate is set. A run in which
// every candidate has a single vote fails with ErrUndecidable unless
// AllowUndecidable is set.
func Detect(shares share.Shares, k int, f field.Field, opts ...Option) (Result, error) {
	o := newOptions(f, opts)
	if err := check(shares, k, f, &o); err != nil {
		return Result{}, err
	}

	tally := NewTally(len(shares))
	buf := make(share.Shares, k)
	skipped := uint64(0)

	it := combin.New(len(shares), k)
	for it.Next() {
		secret, err := evaluate(o.interpolator, shares, it.Indices(), buf)
		if err != nil {
			if o.degenerate == SkipDegenerate && errors.Is(err, interp.ErrDuplicateX) {
				skipped++
				continue
			}
			return Result{}, errors.Wrapf(err, "interpolate subset %v", it.Indices())
		}
		tally.Add(secret, it.Indices())
	}

	return conclude(shares, tally, skipped, &o)
}

// DetectParallel is Detect with the interpolations spread over the given
// number of workers. A non-positive number of workers uses GOMAXPROCS. The
// result is identical to that of Detect for the same input; when the run
// fails because of a degenerate subset, the subset named in the error may
// differ.
//
// The run stops early, returning the context error, if ctx is cancelled.
func DetectParallel(ctx context.Context, shares share.Shares, k int, f field.Field, workers int, opts ...Option) (Result, error) {
	o := newOptions(f, opts)
	if err := check(shares, k, f, &o); err != nil {
		return Result{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	subsets := make(chan []int, 4*workers)
	g.Go(func() error {
		defer close(subsets)
		it := combin.New(len(shares), k)
		for it.Next() {
			select {
			case subsets <- it.Copy():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	tallies := make([]*Tally, workers)
	skipped := make([]uint64, workers)
	for w := 0; w < workers; w++ {
		w := w
		tallies[w] = NewTally(len(shares))
		g.Go(func() error {
			buf := make(share.Shares, k)
			for subset := range subsets {
				if err := ctx.Err(); err != nil {
					return err
				}
				secret, err := evaluate(o.interpolator, shares, subset, buf)
				if err != nil {
					if o.degenerate == SkipDegenerate && errors.Is(err, interp.ErrDuplicateX) {
						skipped[w]++
						continue
					}
					return errors.Wrapf(err, "interpolate subset %v", subset)
				}
				tallies[w].Add(secret, subset)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	tally := NewTally(len(shares))
	total := uint64(0)
	for w := range tallies {
		tally.Merge(tallies[w])
		total += skipped[w]
	}
	return conclude(shares, tally, total, &o)
}

// check validates the run parameters before any subset is evaluated.
func check(shares share.Shares, k int, f field.Field, o *options) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if k <= 0 {
		return errors.Wrapf(ErrInvalidThreshold, "k = %d", k)
	}
	if k > len(shares) {
		return errors.Wrapf(ErrInsufficientShares, "k = %d, n = %d", k, len(shares))
	}
	if err := shares.Validate(f); err != nil {
		return errors.Wrapf(ErrMalformedShare, "%v", err)
	}
	count := combin.Count(len(shares), k)
	if o.maxSubsets != nil && count.Cmp(o.maxSubsets) > 0 {
		return errors.Wrapf(ErrTooManySubsets, "C(%d, %d) = %v exceeds %v", len(shares), k, count, o.maxSubsets)
	}
	o.logger.Debug("start detection",
		zap.Int("n", len(shares)),
		zap.Int("k", k),
		zap.String("subsets", count.String()),
		zap.Stringer("field", f))
	return nil
}

// evaluate interpolates the shares at the given positions, using buf as
// scratch space for the selected shares.
func evaluate(i interp.Interpolator, shares share.Shares, subset []int, buf share.Shares) (*big.Int, error) {
	buf = buf[:len(subset)]
	for j, idx := range subset {
		buf[j] = shares[idx]
	}
	return i.Interpolate(buf)
}

// conclude picks the majority secret from the tally and partitions the
// shares.
func conclude(shares share.Shares, tally *Tally, skipped uint64, o *options) (Result, error) {
	if skipped > 0 {
		o.logger.Warn("skipped degenerate subsets", zap.Uint64("skipped", skipped))
	}

	top, ok := tally.Majority()
	if !ok {
		return Result{}, errors.Wrapf(ErrNoCandidates, "%d subsets skipped", skipped)
	}
	if top.Count == 1 && tally.Total() > 1 && !o.allowUndecidable {
		return Result{}, errors.Wrapf(ErrUndecidable, "%d subsets gave %d different secrets", tally.Total(), tally.Len())
	}

	var members []int
	switch o.witness {
	case FirstWitness:
		members = top.Witness
	default:
		members = top.Members()
	}
	isValid := make([]bool, len(shares))
	for _, i := range members {
		isValid[i] = true
	}

	result := Result{
		Secret:   top.Secret,
		Valid:    share.Shares{},
		Corrupt:  share.Shares{},
		Verdicts: make([]Verdict, len(shares)),
		Votes:    uint64(top.Count),
		Subsets:  uint64(tally.Total()),
		Skipped:  skipped,
		Tally:    tally,
	}
	for i := range shares {
		if isValid[i] {
			result.Verdicts[i] = Valid
			result.Valid = append(result.Valid, shares[i])
		} else {
			result.Verdicts[i] = Corrupt
			result.Corrupt = append(result.Corrupt, shares[i])
		}
	}

	o.logger.Debug("detection done",
		zap.String("secret", result.Secret.String()),
		zap.Uint64("votes", result.Votes),
		zap.Uint64("subsets", result.Subsets),
		zap.Int("candidates", tally.Len()),
		zap.Int("corrupt", len(result.Corrupt)))
	return result, nil
}
