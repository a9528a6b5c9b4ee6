// Package profiler inspects a document's per-page geometry and produces a
// layout profile with a downstream routing recommendation.
package profiler

import (
	"gonum.org/v1/gonum/stat"

	"go-doc-inspector/internal/docgeom"
	"go-doc-inspector/internal/logger"
	"go-doc-inspector/internal/strategy"
	"go-doc-inspector/pkg/models"
)

// Page-level classification thresholds.
const (
	// ImageDominantThreshold is the minimum image coverage for a page to
	// count as image-dominant.
	ImageDominantThreshold = 0.75
	// TextAreaMinRatio is the minimum word-box coverage for a page to count
	// as text-bearing.
	TextAreaMinRatio = 0.02
	// CharMinForText is the minimum glyph count for a page to count as
	// text-bearing regardless of coverage.
	CharMinForText = 50
)

// Profiler computes layout profiles through a document-parsing capability.
type Profiler struct {
	opener docgeom.Opener
}

// New creates a Profiler backed by the given document opener.
func New(opener docgeom.Opener) *Profiler {
	return &Profiler{opener: opener}
}

// Profile opens the document at path and computes its layout profile.
// displayName is the name reported in the profile (an archive member name
// rather than the temp path, typically). Failures never propagate as errors:
// an unreadable document yields a profile with Readable=false and the
// default hybrid recommendation.
func (p *Profiler) Profile(path, displayName string) *models.LayoutProfile {
	profile := &models.LayoutProfile{
		FileName:       displayName,
		Recommendation: models.RecommendHybrid,
	}

	if path == "" {
		profile.Error = "no input provided"
		return profile
	}

	doc, err := p.opener.Open(path)
	if err != nil {
		logger.WithFields(logger.Fields{
			"file":  displayName,
			"error": err.Error(),
		}).Warn("Document could not be opened for profiling")
		profile.Error = err.Error()
		return profile
	}
	defer doc.Close()

	profile.Readable = true
	profile.Metadata = doc.Metadata()

	pages := doc.Pages()
	profile.PageCount = len(pages)

	imageRatios := make([]float64, 0, len(pages))
	textRatios := make([]float64, 0, len(pages))
	for i, page := range pages {
		stats := p.profilePage(i, page, displayName)
		profile.Pages = append(profile.Pages, stats)

		imageRatios = append(imageRatios, stats.ImageAreaRatio)
		textRatios = append(textRatios, stats.TextAreaRatio)
		if stats.ImageDominant {
			profile.ImageDominantPageCount++
		} else if stats.TextDominant {
			profile.TextDominantPageCount++
		}
	}
	profile.MixedPageCount = profile.PageCount -
		(profile.ImageDominantPageCount + profile.TextDominantPageCount)

	if len(imageRatios) > 0 {
		profile.MeanImageCoverage = stat.Mean(imageRatios, nil)
		profile.MeanTextCoverage = stat.Mean(textRatios, nil)
	}

	profile.Recommendation, profile.Rationale = Classify(profile)
	profile.Routing = strategy.ForRecommendation(profile.Recommendation).BuildPlan(profile.Pages)

	logger.WithFields(logger.Fields{
		"file":           displayName,
		"pages":          profile.PageCount,
		"image_dominant": profile.ImageDominantPageCount,
		"text_dominant":  profile.TextDominantPageCount,
		"recommendation": profile.Recommendation,
	}).Info("Layout profile computed")

	return profile
}

// profilePage computes the stats for a single page. Image dominance is
// checked before text dominance; a page is never both.
func (p *Profiler) profilePage(index int, page docgeom.Page, displayName string) models.PageStats {
	stats := models.PageStats{
		Index:  index,
		Width:  page.Width(),
		Height: page.Height(),
	}

	// Floor the denominator so zero-sized pages cannot divide by zero.
	pageArea := stats.Width * stats.Height
	if pageArea < 1 {
		pageArea = 1
	}

	images := page.Images()
	var imageArea float64
	for _, box := range images {
		imageArea += box.Area()
	}
	stats.ImageAreaRatio = clamp01(imageArea / pageArea)
	stats.HasImages = len(images) > 0

	stats.TextCharCount = page.CharCount()

	words, err := page.ExtractWords()
	if err != nil {
		// Recoverable: the page is treated as wordless instead of failing
		// the whole document.
		logger.WithFields(logger.Fields{
			"file":  displayName,
			"page":  index,
			"error": err.Error(),
		}).Warn("Word extraction failed; treating page as textless")
		words = nil
	}
	stats.TextWordCount = len(words)

	// Word-box areas are summed without overlap deduplication; dense
	// layouts can overstate coverage, which the clamp bounds at 1.
	var textArea float64
	for _, box := range words {
		textArea += box.Area()
	}
	stats.TextAreaRatio = clamp01(textArea / pageArea)

	stats.ImageDominant = stats.ImageAreaRatio >= ImageDominantThreshold
	stats.TextDominant = stats.TextAreaRatio >= TextAreaMinRatio && !stats.ImageDominant
	stats.HasText = stats.TextCharCount >= CharMinForText ||
		stats.TextAreaRatio >= TextAreaMinRatio

	return stats
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
