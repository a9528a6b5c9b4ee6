package models

import "time"

// Recommendation identifies which processing engine a document should be
// routed to after layout profiling.
type Recommendation string

const (
	// RecommendOCR routes the whole document to the OCR engine
	RecommendOCR Recommendation = "ocr"
	// RecommendTextExtract routes the whole document to direct text extraction
	RecommendTextExtract Recommendation = "text-extract"
	// RecommendHybrid routes pages individually based on per-page dominance
	RecommendHybrid Recommendation = "hybrid"
)

// ArchiveMember represents one entry inside an archive container
type ArchiveMember struct {
	Name           string    `json:"name"`
	Size           uint64    `json:"size"`
	CompressedSize uint64    `json:"compressed_size"`
	Modified       time.Time `json:"modified"`
	Checksum       uint32    `json:"checksum"`

	// ChecksumVerified is set only after the member's full content has been
	// read; LocalPath is non-empty iff ChecksumVerified is true
	ChecksumVerified bool   `json:"checksum_verified"`
	Error            string `json:"error,omitempty"`
	LocalPath        string `json:"local_path,omitempty"`
}

// ScanResult is the outcome of scanning one archive container.
// Counts are derived from the slices, never stored separately.
type ScanResult struct {
	OK     []*ArchiveMember `json:"ok_members"`
	Bad    []*ArchiveMember `json:"bad_members"`
	Errors []string         `json:"errors,omitempty"`
}

// OKCount returns the number of verified members
func (r *ScanResult) OKCount() int {
	return len(r.OK)
}

// BadCount returns the number of failed members
func (r *ScanResult) BadCount() int {
	return len(r.Bad)
}

// PageStats holds one page's geometry profile
type PageStats struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	ImageAreaRatio float64 `json:"image_area_ratio"`
	TextCharCount  int     `json:"text_char_count"`
	TextWordCount  int     `json:"text_word_count"`
	TextAreaRatio  float64 `json:"text_area_ratio"`

	HasText       bool `json:"has_text"`
	HasImages     bool `json:"has_images"`
	ImageDominant bool `json:"image_dominant"`
	TextDominant  bool `json:"text_dominant"`
}

// RoutingPlan lists which 0-based page indexes go to which engine for one
// document. For an "ocr" or "text-extract" recommendation one list carries
// every page; for "hybrid" pages are split by per-page dominance.
type RoutingPlan struct {
	Strategy  string `json:"strategy"`
	OCRPages  []int  `json:"ocr_pages"`
	TextPages []int  `json:"text_pages"`
}

// LayoutProfile is one document's full layout classification
type LayoutProfile struct {
	FileName  string            `json:"file_name"`
	Readable  bool              `json:"readable"`
	PageCount int               `json:"page_count"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	Pages []PageStats `json:"pages,omitempty"`

	ImageDominantPageCount int `json:"image_dominant_page_count"`
	TextDominantPageCount  int `json:"text_dominant_page_count"`
	MixedPageCount         int `json:"mixed_page_count"`

	// Document-level mean coverage across pages
	MeanImageCoverage float64 `json:"mean_image_coverage"`
	MeanTextCoverage  float64 `json:"mean_text_coverage"`

	Recommendation Recommendation `json:"recommendation"`
	Rationale      string         `json:"rationale,omitempty"`
	Routing        *RoutingPlan   `json:"routing,omitempty"`
}

// ExtractionResult is the top-level outcome of one Extract call
type ExtractionResult struct {
	// TextData stays empty in this service; text population is delegated
	// to the downstream OCR/text-extraction engines
	TextData string `json:"text_data,omitempty"`

	Info    []string `json:"info,omitempty"`
	Warning []string `json:"warning,omitempty"`
	Error   []string `json:"error,omitempty"`

	Profiles []*LayoutProfile `json:"profiles,omitempty"`
}

// AddInfo appends an informational diagnostic
func (r *ExtractionResult) AddInfo(msg string) {
	r.Info = append(r.Info, msg)
}

// AddWarning appends a warning diagnostic
func (r *ExtractionResult) AddWarning(msg string) {
	r.Warning = append(r.Warning, msg)
}

// AddError appends an error diagnostic
func (r *ExtractionResult) AddError(msg string) {
	r.Error = append(r.Error, msg)
}
