package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"goskim/adapters/inference"
	"goskim/adapters/summarizers"
	"goskim/domain/core"
	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal"
)

// SkimService turns a dataset into an ordered summary Result.
type SkimService struct {
	cfg        summary.Config
	engine     *inference.Engine
	summarizer *summarizers.Summarizer
	logger     *internal.Logger
}

// NewSkimService creates a skim service. A nil logger uses the default one.
func NewSkimService(cfg summary.Config, logger *internal.Logger) (*SkimService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SkimService{
		cfg:        cfg,
		engine:     inference.NewEngine(cfg),
		summarizer: summarizers.New(cfg),
		logger:     logger,
	}, nil
}

// Skim summarizes ds without modifying it.
func (s *SkimService) Skim(ctx context.Context, ds *frame.Dataset) (*summary.Result, error) {
	startTime := time.Now()
	runID := core.NewRunID()
	log := s.logger.With("run_id", runID.String())

	// Hierarchical headers break the one-name-per-column model.
	if ds.IsMultiIndex() {
		return nil, core.NewMultiIndexError()
	}

	name := ds.DisplayName()

	work, err := s.engine.DeleteUnsupported(labelUnnamed(ds.Clone()))
	if err != nil {
		log.Warn("skim of %q rejected: %v", name, err)
		return nil, err
	}
	if dropped := ds.NumCols() - work.NumCols(); dropped > 0 {
		log.Debug("dropped %d unsupported columns", dropped)
	}
	work = s.engine.Infer(work)

	result := &summary.Result{Name: name}
	result.Add(summary.Section{Title: summary.TitleDataSummary, Entries: []summary.Entry{
		{Key: "Number of rows", Value: work.NumRows()},
		{Key: "Number of columns", Value: work.NumCols()},
	}})
	result.Add(summary.Section{Title: summary.TitleDataTypes, Entries: dataTypes(work)})

	if cats := work.Select(isCategory); len(cats) > 0 {
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = c.Name
		}
		result.Add(summary.Section{Title: summary.TitleCategories, Entries: []summary.Entry{
			{Key: "Columns", Value: names},
		}})
	}

	tables, err := s.summarizeSections(ctx, work)
	if err != nil {
		return nil, err
	}
	for _, tbl := range tables {
		if tbl != nil {
			result.Add(summary.Section{Title: tbl.Title, Table: tbl})
		}
	}

	log.Info("skimmed %q: %d rows, %d columns, %d sections in %s",
		name, work.NumRows(), work.NumCols(), len(result.Sections), time.Since(startTime))
	return result, nil
}

// summarizeSections runs one summarizer per non-empty section concurrently
// and returns the tables in section order.
func (s *SkimService) summarizeSections(ctx context.Context, ds *frame.Dataset) ([]*summary.Table, error) {
	tables := make([]*summary.Table, len(summary.SectionKinds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Parallelism)
	for i, kind := range summary.SectionKinds {
		cols := ds.Select(selector(kind))
		if len(cols) == 0 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tables[i] = s.summarizer.Summarize(kind, cols, ds.NumRows())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// selector returns the column filter of a section. All-null columns go to
// their own section whatever their type.
func selector(kind summary.SectionKind) func(*frame.Column) bool {
	typed := func(t frame.SemanticType) func(*frame.Column) bool {
		return func(c *frame.Column) bool { return !c.AllNull() && c.Type == t }
	}
	switch kind {
	case summary.SectionAllNull:
		return func(c *frame.Column) bool { return c.AllNull() }
	case summary.SectionNumber:
		return func(c *frame.Column) bool { return !c.AllNull() && c.Type.IsNumeric() }
	case summary.SectionCategory:
		return typed(frame.TypeCategory)
	case summary.SectionBool:
		return typed(frame.TypeBool)
	case summary.SectionDatetime:
		return typed(frame.TypeDatetime)
	case summary.SectionDate:
		return func(c *frame.Column) bool { return c.Type == frame.TypeObject && inference.IsDateColumn(c) }
	case summary.SectionTimedelta:
		return typed(frame.TypeTimedelta)
	case summary.SectionString:
		return typed(frame.TypeString)
	}
	return func(*frame.Column) bool { return false }
}

func isCategory(c *frame.Column) bool { return c.Type == frame.TypeCategory }

// labelUnnamed names every null-named column "Unnamed: i" after its
// position, so each table row has a distinct key. Clashes with existing
// names get a ".k" suffix.
func labelUnnamed(ds *frame.Dataset) *frame.Dataset {
	taken := make(map[string]bool, ds.NumCols())
	for _, c := range ds.Columns() {
		taken[c.Name] = true
	}
	for i, c := range ds.Columns() {
		if c.Name != "" {
			continue
		}
		base := fmt.Sprintf("Unnamed: %d", i)
		label := base
		for k := 1; taken[label]; k++ {
			label = fmt.Sprintf("%s.%d", base, k)
		}
		taken[label] = true
		c.Name = label
	}
	return ds
}

// dataTypes counts columns per dtype, most common first; ties keep the
// order in which the dtype first appears.
func dataTypes(ds *frame.Dataset) []summary.Entry {
	var entries []summary.Entry
	index := make(map[string]int)
	for _, c := range ds.Columns() {
		dtype := c.Type.String()
		if i, ok := index[dtype]; ok {
			entries[i].Value = entries[i].Value.(int) + 1
			continue
		}
		index[dtype] = len(entries)
		entries = append(entries, summary.Entry{Key: dtype, Value: 1})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value.(int) > entries[j].Value.(int)
	})
	return entries
}
