package application

import (
	"runtime"
	"sync"

	"bookgraph/internal/domain"
)

// SectionDiscards groups the discard log entries for one section.
type SectionDiscards struct {
	SectionID string
	Discards  []Discard
}

// CompileSection sequences one section and derives its navigation summary.
func CompileSection(sec domain.Section, rng domain.Range) (*domain.CompiledSection, []Discard) {
	events, discards := SequenceSection(sec, rng)
	return &domain.CompiledSection{
		Section:  sec,
		Sequence: events,
		Nav:      domain.Summarize(events),
	}, discards
}

// CompileAll compiles every section, fanning the work out across workers.
// Sections are independent, and results land in index-addressed slots, so
// the output order matches the input order no matter how the scheduler
// interleaves the workers.
func CompileAll(sections []domain.Section, rng domain.Range, workers int) ([]*domain.CompiledSection, []SectionDiscards) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(sections) {
		workers = len(sections)
	}

	compiled := make([]*domain.CompiledSection, len(sections))
	discards := make([][]Discard, len(sections))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				compiled[i], discards[i] = CompileSection(sections[i], rng)
			}
		}()
	}
	for i := range sections {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var log []SectionDiscards
	for i, d := range discards {
		if len(d) > 0 {
			log = append(log, SectionDiscards{SectionID: sections[i].ID, Discards: d})
		}
	}
	return compiled, log
}
