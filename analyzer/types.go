package analyzer

// SEOReport is the complete analysis of a single page. Its JSON shape is the
// wire contract toward the report UI; renaming fields breaks compatibility.
type SEOReport struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Timestamp    string `json:"timestamp"`
	OverallScore int    `json:"overallScore"`
	Grade        string `json:"grade"`

	OnPage       OnPageSEO          `json:"onPage"`
	Technical    TechnicalSEO       `json:"technical"`
	Performance  PerformanceSEO     `json:"performance"`
	Crawl        CrawlSEO           `json:"crawl"`
	Security     SecuritySEO        `json:"security"`
	Social       SocialSEO          `json:"social"`
	Content      ContentSEO         `json:"content"`
	Backlinks    BacklinksSEO       `json:"backlinks"`
	Rendering    RenderingSEO       `json:"rendering"`
	AMP          AMPAnalysis        `json:"amp"`
	Intelligence IntelligenceReport `json:"intelligence"`
}

type OnPageSEO struct {
	Score           int             `json:"score"`
	Title           TitleCheck      `json:"title"`
	MetaDescription TitleCheck      `json:"metaDescription"`
	Headings        HeadingsCheck   `json:"headings"`
	Images          ImagesCheck     `json:"images"`
	Keywords        KeywordsCheck   `json:"keywords"`
	Links           LinkCountsCheck `json:"links"`
}

// TitleCheck covers both the <title> tag and the meta description; the two
// share a shape (text, length, issues, score).
type TitleCheck struct {
	Content string   `json:"content"`
	Length  int      `json:"length"`
	Issues  []string `json:"issues"`
	Score   int      `json:"score"`
}

type HeadingsCheck struct {
	H1     []string `json:"h1"`
	H2     []string `json:"h2"`
	H3     []string `json:"h3"`
	H4     []string `json:"h4"`
	Issues []string `json:"issues"`
	Score  int      `json:"score"`
}

type ImagesCheck struct {
	Total       int      `json:"total"`
	WithAlt     int      `json:"withAlt"`
	WithoutAlt  int      `json:"withoutAlt"`
	LargeImages int      `json:"largeImages"`
	Issues      []string `json:"issues"`
	Score       int      `json:"score"`
}

type KeywordsCheck struct {
	TopKeywords []Keyword `json:"topKeywords"`
	Score       int       `json:"score"`
}

// Keyword is one entry of the frequency-ranked keyword table. Density is the
// share of all stop-word-filtered words, in percent, rounded to 2 decimals.
type Keyword struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

type LinkCountsCheck struct {
	Internal int      `json:"internal"`
	External int      `json:"external"`
	Nofollow int      `json:"nofollow"`
	Issues   []string `json:"issues"`
}

type TechnicalSEO struct {
	Score          int            `json:"score"`
	Canonical      string         `json:"canonical"`
	Robots         string         `json:"robots"`
	Viewport       string         `json:"viewport"`
	Charset        string         `json:"charset"`
	Lang           string         `json:"lang"`
	StructuredData StructuredData `json:"structuredData"`
	Hreflang       []string       `json:"hreflang"`
	SitemapLinked  bool           `json:"sitemapLinked"`
	RobotsTxt      RobotsTxtCheck `json:"robotsTxt"`
	HTTPToHTTPS    bool           `json:"httpToHttps"`
	WWW            bool           `json:"www"`
	Issues         []string       `json:"issues"`
}

type StructuredData struct {
	Found bool     `json:"found"`
	Types []string `json:"types"`
}

type RobotsTxtCheck struct {
	Accessible bool   `json:"accessible"`
	Content    string `json:"content"`
	// RootAllowed reflects whether the probed user-agent may fetch "/"
	// according to the parsed robots.txt. False whenever inaccessible.
	RootAllowed bool `json:"rootAllowed"`
}

type PerformanceSEO struct {
	Score         int      `json:"score"`
	Performance   int      `json:"performance"`
	Accessibility int      `json:"accessibility"`
	BestPractices int      `json:"bestPractices"`
	SEO           int      `json:"seo"`
	FCP           string   `json:"fcp"`
	LCP           string   `json:"lcp"`
	TBT           string   `json:"tbt"`
	CLS           string   `json:"cls"`
	TTI           string   `json:"tti"`
	SpeedIndex    string   `json:"speedIndex"`
	ResourceCount int      `json:"resourceCount"`
	TotalSize     string   `json:"totalSize"`
	Issues        []string `json:"issues"`
	Error         string   `json:"error,omitempty"`
}

type CrawlSEO struct {
	Score            int         `json:"score"`
	Indexable        bool        `json:"indexable"`
	RobotsBlocked    bool        `json:"robotsBlocked"`
	NofollowPage     bool        `json:"nofollowPage"`
	CanonicalCorrect bool        `json:"canonicalCorrect"`
	InternalLinks    []CrawlLink `json:"internalLinks"`
	BrokenLinks      []string    `json:"brokenLinks"`
	RedirectChains   []string    `json:"redirectChains"`
	PaginationTags   bool        `json:"paginationTags"`
	AMPVersion       bool        `json:"ampVersion"`
	Issues           []string    `json:"issues"`
}

type CrawlLink struct {
	Href string `json:"href"`
	Text string `json:"text"`
	Rel  string `json:"rel"`
}

type SecuritySEO struct {
	Score         int               `json:"score"`
	HTTPS         bool              `json:"https"`
	HSTS          bool              `json:"hsts"`
	MixedContent  bool              `json:"mixedContent"`
	CSP           bool              `json:"csp"`
	XFrameOptions bool              `json:"xFrameOptions"`
	SafeHeaders   map[string]string `json:"safeHeaders"`
	Issues        []string          `json:"issues"`
}

type SocialSEO struct {
	Score              int      `json:"score"`
	OGTitle            string   `json:"ogTitle"`
	OGDescription      string   `json:"ogDescription"`
	OGImage            string   `json:"ogImage"`
	OGType             string   `json:"ogType"`
	TwitterCard        string   `json:"twitterCard"`
	TwitterTitle       string   `json:"twitterTitle"`
	TwitterDescription string   `json:"twitterDescription"`
	TwitterImage       string   `json:"twitterImage"`
	Issues             []string `json:"issues"`
}

type ContentSEO struct {
	Score              int      `json:"score"`
	WordCount          int      `json:"wordCount"`
	ParagraphCount     int      `json:"paragraphCount"`
	ReadabilityScore   int      `json:"readabilityScore"`
	ReadabilityGrade   string   `json:"readabilityGrade"`
	AvgSentenceLength  float64  `json:"avgSentenceLength"`
	ContentToCodeRatio int      `json:"contentToCodeRatio"`
	DuplicateContent   bool     `json:"duplicateContent"`
	Issues             []string `json:"issues"`
}

// BacklinksSEO is a heuristic built from on-page outbound links only; a real
// backlink profile needs an external index, which this service does not use.
type BacklinksSEO struct {
	Score            int     `json:"score"`
	ExternalLinksOut int     `json:"externalLinksOut"`
	NofollowRatio    float64 `json:"nofollowRatio"`
	SponsoredLinks   int     `json:"sponsoredLinks"`
	UGCLinks         int     `json:"ugcLinks"`
	Note             string  `json:"note"`
}

type RenderingSEO struct {
	Score            int      `json:"score"`
	LazyLoadImages   bool     `json:"lazyLoadImages"`
	JSRenderRequired bool     `json:"jsRenderRequired"`
	Iframes          int      `json:"iframes"`
	FlashContent     bool     `json:"flashContent"`
	CSSBlocking      int      `json:"cssBlocking"`
	JSBlocking       int      `json:"jsBlocking"`
	InlineStyles     int      `json:"inlineStyles"`
	Issues           []string `json:"issues"`
}

// ── AMP ──────────────────────────────────────────────────────────────────────

type AMPAnalysis struct {
	Score                  int    `json:"score"`
	HasAMP                 bool   `json:"hasAmp"`
	IsAMPPage              bool   `json:"isAmpPage"`
	AMPURL                 string `json:"ampUrl"`
	AMPHTMLTag             bool   `json:"ampHtmlTag"`
	AMPBoilerplate         bool   `json:"ampBoilerplate"`
	AMPCanonical           string `json:"ampCanonical"`
	AMPLinkedFromCanonical bool   `json:"ampLinkedFromCanonical"`

	Validation      AMPValidation  `json:"validation"`
	Technical       AMPTechnical   `json:"technical"`
	Content         AMPContent     `json:"content"`
	Performance     AMPPerformance `json:"performance"`
	Comparison      *AMPComparison `json:"comparison"`
	Issues          []string       `json:"issues"`
	Recommendations []string       `json:"recommendations"`
}

type AMPValidation struct {
	Score              int      `json:"score"`
	HasAMPHTMLAttr     bool     `json:"hasAmpHtmlAttribute"`
	HasCharsetUTF8     bool     `json:"hasCharsetUtf8"`
	HasViewport        bool     `json:"hasViewport"`
	HasAMPBoilerplate  bool     `json:"hasAmpBoilerplate"`
	HasAMPRuntime      bool     `json:"hasAmpRuntime"`
	HasCanonicalLink   bool     `json:"hasCanonicalLink"`
	NoCustomJS         bool     `json:"noCustomJs"`
	NoInlineStyles     bool     `json:"noInlineStyles"`
	NoFormElements     bool     `json:"noFormElements"`
	UsesAMPImg         bool     `json:"usesAmpImg"`
	UsesAMPVideo       bool     `json:"usesAmpVideo"`
	UsesAMPIframe      bool     `json:"usesAmpIframe"`
	ForbiddenTagsFound []string `json:"forbiddenTagsFound"`
	CustomCSSSize      int      `json:"customCssSize"`
	CustomCSSSizeLimit int      `json:"customCssSizeLimit"`
	Issues             []string `json:"issues"`
}

type AMPTechnical struct {
	Score                   int            `json:"score"`
	AMPRuntimeSrc           string         `json:"ampRuntimeSrc"`
	AMPComponents           []string       `json:"ampComponents"`
	AMPExtensions           []string       `json:"ampExtensions"`
	StructuredData          StructuredData `json:"structuredData"`
	CanonicalPointsToNonAMP bool           `json:"canonicalPointsToNonAmp"`
	CanonicalURL            string         `json:"canonicalUrl"`
	SelfCanonical           bool           `json:"selfCanonical"`
	MetaCharset             string         `json:"metaCharset"`
	MetaViewport            string         `json:"metaViewport"`
	Hreflang                []string       `json:"hreflang"`
	RobotsMeta              string         `json:"robotsMeta"`
	IsIndexable             bool           `json:"isIndexable"`
	Issues                  []string       `json:"issues"`
}

type AMPContent struct {
	Score                 int      `json:"score"`
	WordCount             int      `json:"wordCount"`
	ImgCount              int      `json:"imgCount"`
	AMPImgCount           int      `json:"ampImgCount"`
	RegularImgCount       int      `json:"regularImgCount"`
	VideoCount            int      `json:"videoCount"`
	AMPVideoCount         int      `json:"ampVideoCount"`
	IframeCount           int      `json:"iframeCount"`
	AMPIframeCount        int      `json:"ampIframeCount"`
	HasAd                 bool     `json:"hasAd"`
	HasSocialEmbed        bool     `json:"hasSocialEmbed"`
	SocialEmbedComponents []string `json:"socialEmbedComponents"`
	Issues                []string `json:"issues"`
}

type AMPPerformance struct {
	Score                  int      `json:"score"`
	InlineStylesCount      int      `json:"inlineStylesCount"`
	CustomCSSKb            float64  `json:"customCssKb"`
	ScriptTagsCount        int      `json:"scriptTagsCount"`
	AllowedScriptCount     int      `json:"allowedScriptCount"`
	ExternalScriptsBlocked int      `json:"externalScriptsBlocked"`
	CriticalPathOptimized  bool     `json:"criticalPathOptimized"`
	Issues                 []string `json:"issues"`
}

type AMPComparison struct {
	Canonical      AMPPageSnapshot `json:"canonical"`
	AMP            AMPPageSnapshot `json:"amp"`
	Differences    []AMPDiff       `json:"differences"`
	ContentParity  int             `json:"contentParity"`
	SEOEquivalence int             `json:"seoEquivalence"`
}

// AMPPageSnapshot is a minimal fingerprint of one document, used only to diff
// a canonical page against its AMP counterpart.
type AMPPageSnapshot struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	MetaDescription string `json:"metaDescription"`
	WordCount       int    `json:"wordCount"`
	H1              string `json:"h1"`
	Canonical       string `json:"canonical"`
	StructuredData  bool   `json:"structuredData"`
	ImgCount        int    `json:"imgCount"`
	InternalLinks   int    `json:"internalLinks"`
}

type AMPDiff struct {
	Field     string `json:"field"`
	Canonical string `json:"canonical"`
	AMP       string `json:"amp"`
	Severity  string `json:"severity"` // critical, warning or info
	Message   string `json:"message"`
}

// ── Intelligence ─────────────────────────────────────────────────────────────

type IntelligenceReport struct {
	Score       int               `json:"score"`
	Intent      IntentReport      `json:"intent"`
	Entities    EntityReport      `json:"entities"`
	EEAT        EEATReport        `json:"eeat"`
	LinkQuality LinkQualityReport `json:"linkQuality"`
	Serp        SerpPreviewReport `json:"serp"`
}

type IntentReport struct {
	Intent       string       `json:"intent"`
	Scores       IntentScores `json:"scores"`
	MismatchRisk string       `json:"mismatchRisk"`
}

type IntentScores struct {
	Informational int `json:"informational"`
	Commercial    int `json:"commercial"`
	Transactional int `json:"transactional"`
	Navigational  int `json:"navigational"`
}

type EntityReport struct {
	TopEntities   []Entity `json:"topEntities"`
	UniqueCount   int      `json:"uniqueCount"`
	CoverageScore int      `json:"coverageScore"`
	Hints         []string `json:"hints"`
}

type Entity struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Type  string `json:"type"` // brand, organization, place, time, concept, other
}

type EEATReport struct {
	Score   int         `json:"score"`
	Signals EEATSignals `json:"signals"`
	Gaps    []string    `json:"gaps"`
}

type EEATSignals struct {
	HasAuthorMeta    bool `json:"hasAuthorMeta"`
	HasArticleSchema bool `json:"hasArticleSchema"`
	HasOrgSchema     bool `json:"hasOrgSchema"`
	HasAbout         bool `json:"hasAbout"`
	HasContact       bool `json:"hasContact"`
	HasPolicy        bool `json:"hasPolicy"`
	HasReviews       bool `json:"hasReviews"`
	CitationsCount   int  `json:"citationsCount"`
}

type LinkQualityReport struct {
	Score              int          `json:"score"`
	Totals             LinkTotals   `json:"totals"`
	AnchorDiversity    int          `json:"anchorDiversity"`
	GenericAnchorRatio int          `json:"genericAnchorRatio"`
	TopAnchors         []AnchorText `json:"topAnchors"`
	Hints              []string     `json:"hints"`
}

type LinkTotals struct {
	Total      int `json:"total"`
	Contextual int `json:"contextual"`
	NavFooter  int `json:"navFooter"`
}

type AnchorText struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type SerpPreviewReport struct {
	Title                     string `json:"title"`
	MetaDescription           string `json:"metaDescription"`
	TitlePixels               int    `json:"titlePixels"`
	TitleMaxPixels            int    `json:"titleMaxPixels"`
	TitleTruncationRisk       string `json:"titleTruncationRisk"`
	DescriptionPixels         int    `json:"descriptionPixels"`
	DescriptionMaxPixels      int    `json:"descriptionMaxPixels"`
	DescriptionTruncationRisk string `json:"descriptionTruncationRisk"`
}
