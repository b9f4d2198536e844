// Command shamirvote reconstructs a Shamir shared secret from a set of shares
// that may contain corrupt entries, and reports which shares disagree with
// the majority.
//
// Usage:
//
//	shamirvote --input shares.json
//	cat shares.json | shamirvote --format json --workers 8
package main

func main() {
	Execute()
}
