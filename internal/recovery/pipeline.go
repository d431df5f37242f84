// Package recovery implements staged DOI recovery for bibliographic
// records that lack one. Three phases run in order of decreasing
// precision (PubMed ID lookup, structured journal search, fuzzy text
// search); the first phase whose best candidate clears its confidence
// threshold wins, and later phases are skipped entirely.
package recovery

import (
	"context"
	"fmt"

	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/confidence"
	"github.com/Thisiswallz/2025-Scopus-db-builder/internal/crossref"
)

// Method labels how a DOI was recovered.
const (
	MethodIDLookup   = "id_lookup"
	MethodStructured = "structured_search"
	MethodFuzzy      = "fuzzy_search"
	MethodNone       = "none"
)

// minFuzzyTitleLen guards the fuzzy phase: shorter titles match half
// the corpus.
const minFuzzyTitleLen = 10

// fuzzySearchRows caps how many fuzzy candidates are scored. The fuzzy
// phase trades precision for recall, so it gets a tighter cap than the
// structured search.
const fuzzySearchRows = 3

// Thresholds are the per-phase minimum confidence scores a candidate
// must reach to be accepted.
type Thresholds struct {
	IDLookup   float64 `json:"id_lookup"`
	Structured float64 `json:"structured"`
	Fuzzy      float64 `json:"fuzzy"`
}

// DefaultThresholds reflect each phase's precision: looser phases need
// stronger bibliographic agreement to compensate.
var DefaultThresholds = Thresholds{
	IDLookup:   0.80,
	Structured: 0.75,
	Fuzzy:      0.65,
}

// Client is the subset of the CrossRef client the pipeline needs.
type Client interface {
	LookupByExternalID(ctx context.Context, idType, value string) (*crossref.Work, error)
	SearchStructured(ctx context.Context, journal string, f crossref.StructuredFilter) ([]crossref.Work, error)
	SearchFuzzy(ctx context.Context, title, author string, year, rows int) ([]crossref.Work, error)
}

// Input is the metadata available for one record missing a DOI.
type Input struct {
	DOI      string
	PubMedID string
	Title    string
	Authors  string
	Year     int
	Journal  string
	Volume   string
	Pages    string
}

// Outcome is the result of one recovery attempt.
type Outcome struct {
	DOI        string   `json:"doi,omitempty"`
	Method     string   `json:"method"`
	Confidence float64  `json:"confidence"`
	Status     string   `json:"status,omitempty"`
	Factors    []string `json:"factors,omitempty"`
}

// PhaseStats counts attempts and acceptances for one phase.
type PhaseStats struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// Stats aggregates pipeline activity across a run.
type Stats struct {
	Records     int        `json:"records"`
	AlreadyHad  int        `json:"already_had_doi"`
	Recovered   int        `json:"recovered"`
	Unrecovered int        `json:"unrecovered"`
	IDLookup    PhaseStats `json:"id_lookup"`
	Structured  PhaseStats `json:"structured_search"`
	Fuzzy       PhaseStats `json:"fuzzy_search"`
}

// Pipeline recovers DOIs one record at a time. It is not safe for
// concurrent use; run one pipeline per batch.
type Pipeline struct {
	client     Client
	thresholds Thresholds
	stats      Stats
}

// New creates a pipeline. Zero-valued thresholds fall back to the
// defaults field by field.
func New(client Client, thresholds Thresholds) *Pipeline {
	if thresholds.IDLookup == 0 {
		thresholds.IDLookup = DefaultThresholds.IDLookup
	}
	if thresholds.Structured == 0 {
		thresholds.Structured = DefaultThresholds.Structured
	}
	if thresholds.Fuzzy == 0 {
		thresholds.Fuzzy = DefaultThresholds.Fuzzy
	}
	return &Pipeline{client: client, thresholds: thresholds}
}

// Stats returns a snapshot of the run counters.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Recover attempts to find a DOI for one record. A record that already
// carries a DOI is returned as-is without any API traffic. Only
// authentication and context errors abort; a phase that finds nothing
// simply yields to the next.
func (p *Pipeline) Recover(ctx context.Context, in Input) (Outcome, error) {
	p.stats.Records++

	if in.DOI != "" {
		p.stats.AlreadyHad++
		return Outcome{DOI: in.DOI, Method: MethodNone, Confidence: 1.0}, nil
	}

	ref := confidence.Reference{
		Title:          in.Title,
		AuthorFamilies: confidence.LastNames(in.Authors),
		Year:           in.Year,
		Volume:         in.Volume,
		Pages:          in.Pages,
	}

	if in.PubMedID != "" {
		p.stats.IDLookup.Attempted++
		out, err := p.lookupByPubMedID(ctx, in, ref)
		if err != nil {
			return Outcome{}, err
		}
		if out != nil {
			p.stats.IDLookup.Succeeded++
			p.stats.Recovered++
			return *out, nil
		}
	}

	if in.Journal != "" && (in.Volume != "" || in.Year > 0) {
		p.stats.Structured.Attempted++
		out, err := p.searchStructured(ctx, in, ref)
		if err != nil {
			return Outcome{}, err
		}
		if out != nil {
			p.stats.Structured.Succeeded++
			p.stats.Recovered++
			return *out, nil
		}
	}

	if len(in.Title) >= minFuzzyTitleLen {
		p.stats.Fuzzy.Attempted++
		out, err := p.searchFuzzy(ctx, in, ref)
		if err != nil {
			return Outcome{}, err
		}
		if out != nil {
			p.stats.Fuzzy.Succeeded++
			p.stats.Recovered++
			return *out, nil
		}
	}

	p.stats.Unrecovered++
	return Outcome{Method: MethodNone}, nil
}

func (p *Pipeline) lookupByPubMedID(ctx context.Context, in Input, ref confidence.Reference) (*Outcome, error) {
	work, err := p.client.LookupByExternalID(ctx, "pmid", in.PubMedID)
	if err != nil {
		return nil, fmt.Errorf("pmid lookup for %q: %w", in.PubMedID, err)
	}
	if work == nil {
		return nil, nil
	}
	return acceptBest(confidence.IDLookup, ref, []crossref.Work{*work}, p.thresholds.IDLookup, MethodIDLookup), nil
}

func (p *Pipeline) searchStructured(ctx context.Context, in Input, ref confidence.Reference) (*Outcome, error) {
	works, err := p.client.SearchStructured(ctx, in.Journal, crossref.StructuredFilter{
		Year:   in.Year,
		Volume: in.Volume,
		Pages:  in.Pages,
	})
	if err != nil {
		return nil, fmt.Errorf("structured search in %q: %w", in.Journal, err)
	}
	return acceptBest(confidence.StructuredSearch, ref, works, p.thresholds.Structured, MethodStructured), nil
}

func (p *Pipeline) searchFuzzy(ctx context.Context, in Input, ref confidence.Reference) (*Outcome, error) {
	var author string
	if len(ref.AuthorFamilies) > 0 {
		author = ref.AuthorFamilies[0]
	}
	works, err := p.client.SearchFuzzy(ctx, in.Title, author, in.Year, fuzzySearchRows)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search for %q: %w", in.Title, err)
	}
	return acceptBest(confidence.FuzzySearch, ref, works, p.thresholds.Fuzzy, MethodFuzzy), nil
}

// acceptBest scores every candidate and returns the highest-scoring
// one if it clears the threshold. Ties keep the earlier candidate, so
// the API's own relevance ordering is the tie-break.
func acceptBest(m confidence.Method, ref confidence.Reference, works []crossref.Work, threshold float64, method string) *Outcome {
	var best *Outcome
	for _, w := range works {
		if w.DOI == "" {
			continue
		}
		res := confidence.Score(m, ref, confidence.Candidate{
			Title:          w.PrimaryTitle(),
			AuthorFamilies: w.AuthorFamilies(),
			Year:           w.Year(),
			Volume:         w.Volume,
			Page:           w.Page,
		})
		if res.Score < threshold {
			continue
		}
		if best == nil || res.Score > best.Confidence {
			best = &Outcome{
				DOI:        w.DOI,
				Method:     method,
				Confidence: res.Score,
				Status:     res.Status,
				Factors:    res.Factors,
			}
		}
	}
	return best
}
