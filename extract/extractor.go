package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"

	"github.com/manualqa/manualqa/ai"
	"github.com/manualqa/manualqa/core"
)

// Extractor turns a PDF file into an ordered sequence of text units.
// In plain mode every page becomes one body unit. With a captioner attached
// (vision-enhanced mode), embedded images are additionally described by a
// vision model and the descriptions become figure units ordered after the
// body text of their page.
type Extractor struct {
	captioner ai.Captioner
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCaptioner attaches an image captioning service, enabling
// vision-enhanced extraction. A nil captioner leaves plain mode in effect.
func WithCaptioner(captioner ai.Captioner) Option {
	return func(e *Extractor) {
		e.captioner = captioner
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExtractor creates an extractor in plain mode; pass WithCaptioner to
// enable vision-enhanced mode.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// VisionEnabled reports whether figure descriptions will be generated.
func (e *Extractor) VisionEnabled() bool {
	return e.captioner != nil
}

// ExtractFile parses the PDF at path and returns its text units ordered by
// (page, sequence). Returns ErrExtraction when the document cannot be parsed
// and ErrNoContent (wrapped) when parsing yields only whitespace.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]core.ExtractedUnit, error) {
	units, err := e.extractPages(ctx, path)
	if err != nil {
		return nil, err
	}

	if e.captioner != nil {
		figures := e.describeImages(ctx, path)
		units = append(units, figures...)
	}

	sortUnits(units)

	if combinedTextIsEmpty(units) {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, ErrNoContent)
	}

	return units, nil
}

// extractPages loads per-page body text through the PDF document loader.
func (e *Extractor) extractPages(ctx context.Context, path string) ([]core.ExtractedUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	loader := documentloaders.NewPDF(f, info.Size())
	docs, err := loader.Load(ctx)
	if err != nil {
		e.logger.Error("failed to parse PDF", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	e.logger.Debug("loaded PDF pages", "path", path, "pages", len(docs))

	units := make([]core.ExtractedUnit, 0, len(docs))
	for i, doc := range docs {
		page := i + 1
		if p, ok := doc.Metadata["page"].(int); ok && p > 0 {
			page = p
		}
		units = append(units, core.ExtractedUnit{
			Page: page,
			Seq:  0,
			Kind: core.UnitBody,
			Text: doc.PageContent,
		})
	}
	return units, nil
}

// describeImages captions every embedded image serially and returns the
// resulting figure units. Per-image failures are logged and skipped; they
// never abort the page or the document. A failure to enumerate images at all
// degrades the document to plain extraction, also logged.
func (e *Extractor) describeImages(ctx context.Context, path string) []core.ExtractedUnit {
	images, err := extractImages(path)
	if err != nil {
		e.logger.Warn("failed to enumerate embedded images, continuing without figure descriptions",
			"path", path, "err", err)
		return nil
	}

	e.logger.Debug("found embedded images", "path", path, "count", len(images))

	return e.captionImages(ctx, images)
}

// captionImages runs every image through the captioner and converts non-empty
// descriptions into figure units, numbered per page in encounter order.
func (e *Extractor) captionImages(ctx context.Context, images []pageImage) []core.ExtractedUnit {
	seqByPage := make(map[int]int)
	var units []core.ExtractedUnit

	for _, img := range images {
		description, err := e.captioner.DescribeImage(ctx, img.mimeType, img.data)
		if err != nil {
			e.logger.Warn("image description failed, skipping image",
				"page", img.page, "err", err)
			continue
		}
		if strings.TrimSpace(description) == "" {
			e.logger.Debug("empty image description, skipping image", "page", img.page)
			continue
		}

		seqByPage[img.page]++
		units = append(units, core.ExtractedUnit{
			Page: img.page,
			Seq:  seqByPage[img.page],
			Kind: core.UnitFigure,
			Text: fmt.Sprintf("Figure on page %d: %s", img.page, description),
		})
	}
	return units
}

// sortUnits orders units by (page, sequence), keeping body text ahead of the
// figures of the same page.
func sortUnits(units []core.ExtractedUnit) {
	slices.SortStableFunc(units, func(a, b core.ExtractedUnit) int {
		if a.Page != b.Page {
			return a.Page - b.Page
		}
		return a.Seq - b.Seq
	})
}

// combinedTextIsEmpty reports whether the concatenated unit text is
// whitespace-only.
func combinedTextIsEmpty(units []core.ExtractedUnit) bool {
	for _, unit := range units {
		if strings.TrimSpace(unit.Text) != "" {
			return false
		}
	}
	return true
}
