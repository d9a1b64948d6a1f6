package domain

// Source describes one news homepage and how to pull candidates from it.
type Source struct {
	Name      string
	URL       string
	Selector  string
	Scanner   string
	Extractor string
}

// Candidate is an extracted, not-yet-processed article reference.
// URL is absolute and acts as the dedup key.
type Candidate struct {
	Source string
	Title  string
	URL    string
}

// ArticleContent is the scraped body of an article page.
type ArticleContent struct {
	Text     string
	ImageURL string
}

// Article is a candidate enriched with scraped metadata, ready for publishing.
type Article struct {
	Candidate
	ImageURL string
}

// Outcome enumerates the terminal state of one candidate within a cycle.
type Outcome string

const (
	OutcomeAlreadyPosted    Outcome = "skipped:already-posted"
	OutcomeDedupCheckFailed Outcome = "skipped:dedup-check-failed"
	OutcomeScrapeFailed     Outcome = "skipped:scrape-failed"
	OutcomeSummarizeFailed  Outcome = "skipped:summarize-failed"
	OutcomePosted           Outcome = "posted"
	OutcomePostFailed       Outcome = "failed:post-error"
)

// Skipped reports whether the candidate was dropped before publishing.
func (o Outcome) Skipped() bool {
	switch o {
	case OutcomeAlreadyPosted, OutcomeDedupCheckFailed, OutcomeScrapeFailed, OutcomeSummarizeFailed:
		return true
	default:
		return false
	}
}

// Result pairs a candidate with the outcome it reached.
type Result struct {
	Candidate Candidate
	Outcome   Outcome
}

// Tally counts results per outcome.
func Tally(results []Result) map[Outcome]int {
	counts := make(map[Outcome]int, len(results))
	for _, r := range results {
		counts[r.Outcome]++
	}
	return counts
}
