package tokens

import (
	"fmt"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/HartBrook/promptbench/internal/errors"
	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Strategy names accepted by NewCounter.
const (
	StrategyHeuristic = "heuristic"
	StrategyBPE       = "bpe"
	StrategyRunes     = "runes"
)

// DefaultEncoding is the BPE encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// Strategies lists every counting strategy in display order.
var Strategies = []string{StrategyHeuristic, StrategyBPE, StrategyRunes}

// Encodings lists the BPE encodings available offline.
var Encodings = []string{"cl100k_base", "p50k_base", "r50k_base"}

// Counter produces a token count for a text.
// Implementations must be safe for concurrent use.
type Counter interface {
	Name() string
	Count(text string) int
}

// Measure counts text with c and wraps the result in an Estimate.
func Measure(c Counter, text string) Estimate {
	return NewEstimate(text, c.Count(text))
}

// NewCounter builds the counter registered under strategy.
// encoding only applies to the bpe strategy; empty selects DefaultEncoding.
func NewCounter(strategy, encoding string) (Counter, error) {
	switch strategy {
	case "", StrategyHeuristic:
		return HeuristicCounter{}, nil
	case StrategyRunes:
		return RuneCounter{}, nil
	case StrategyBPE:
		return NewBPECounter(encoding)
	default:
		return nil, errors.TokenizerUnavailable(strategy, fmt.Errorf("unknown strategy (use one of %v)", Strategies))
	}
}

// HeuristicCounter counts with EstimateHeuristic.
type HeuristicCounter struct{}

func (HeuristicCounter) Name() string { return StrategyHeuristic }

func (HeuristicCounter) Count(text string) int { return heuristicCount(text) }

// RuneCounter approximates tokens as runes/4. Rune count rather than byte
// count keeps multi-byte scripts from inflating the result.
type RuneCounter struct{}

func (RuneCounter) Name() string { return StrategyRunes }

func (RuneCounter) Count(text string) int {
	return utf8.RuneCountInString(text) / 4
}

var loaderOnce sync.Once

// BPECounter counts tokens with a real byte-pair-encoding vocabulary.
type BPECounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewBPECounter loads the named encoding from the embedded vocabularies.
// Loading is expensive; build one counter per process and share it.
func NewBPECounter(encoding string) (*BPECounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if !knownEncoding(encoding) {
		return nil, errors.TokenizerUnavailable(StrategyBPE+"/"+encoding, fmt.Errorf("unknown encoding (use one of %v)", Encodings))
	}

	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, errors.TokenizerUnavailable(StrategyBPE+"/"+encoding, err)
	}
	return &BPECounter{encoding: encoding, enc: enc}, nil
}

func (c *BPECounter) Name() string { return StrategyBPE + "/" + c.encoding }

// Encoding returns the vocabulary name.
func (c *BPECounter) Encoding() string { return c.encoding }

func (c *BPECounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

func knownEncoding(name string) bool {
	return slices.Contains(Encodings, name)
}
