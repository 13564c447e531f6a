package content

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
	Full   string `json:"full"`
}

type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

type SEO struct {
	SiteURL       string   `json:"siteUrl"`
	DefaultTitle  string   `json:"defaultTitle"`
	TitleTemplate string   `json:"titleTemplate"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords"`
}

type Hero struct {
	Headline          string `json:"headline"`
	HeadlineHighlight string `json:"headlineHighlight"`
	Subheadline       string `json:"subheadline"`
	CTAPrimary        string `json:"ctaPrimary,omitempty"`
	CTASecondary      string `json:"ctaSecondary,omitempty"`
	Image             string `json:"image,omitempty"`
	Video             string `json:"video,omitempty"`
}

type TrustIndicator struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

type Statistic struct {
	Icon        string `json:"icon"`
	Number      string `json:"number"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type Ratings struct {
	Average  string `json:"average"`
	Count    string `json:"count"`
	Platform string `json:"platform,omitempty"`
}

// Business is business.json.
type Business struct {
	Name                string            `json:"name"`
	ShortName           string            `json:"shortName,omitempty"`
	Tagline             string            `json:"tagline"`
	Description         string            `json:"description"`
	Phone               string            `json:"phone"`
	PhoneRaw            string            `json:"phoneRaw"`
	Email               string            `json:"email"`
	Address             Address           `json:"address"`
	Logo                string            `json:"logo"`
	LogoDark            string            `json:"logoDark,omitempty"`
	Favicon             string            `json:"favicon,omitempty"`
	Colors              Colors            `json:"colors"`
	Hours               string            `json:"hours"`
	EmergencyService    bool              `json:"emergencyService,omitempty"`
	YearsInBusiness     int               `json:"yearsInBusiness,omitempty"`
	FoundedYear         int               `json:"foundedYear,omitempty"`
	LicenseNumber       string            `json:"licenseNumber,omitempty"`
	Certifications      []string          `json:"certifications"`
	UniqueSellingPoints []string          `json:"uniqueSellingPoints"`
	Social              map[string]string `json:"social"`
	SEO                 SEO               `json:"seo"`
	Hero                *Hero             `json:"hero,omitempty"`
	TrustIndicators     []TrustIndicator  `json:"trustIndicators,omitempty"`
	Statistics          []Statistic       `json:"statistics,omitempty"`
	Ratings             *Ratings          `json:"ratings,omitempty"`
}

type Benefit struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ProcessStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Service struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	ShortDescription string        `json:"shortDescription"`
	Description      string        `json:"description"`
	Icon             string        `json:"icon"`
	HeroImage        string        `json:"heroImage,omitempty"`
	HeroTitle        string        `json:"heroTitle,omitempty"`
	IntroText        string        `json:"introText,omitempty"`
	Benefits         []Benefit     `json:"benefits"`
	ProcessSteps     []ProcessStep `json:"processSteps,omitempty"`
	FAQs             []QA          `json:"faqs"`
	SEOTitle         string        `json:"seoTitle,omitempty"`
	SEODescription   string        `json:"seoDescription,omitempty"`
	IsFeatured       bool          `json:"isFeatured,omitempty"`
}

type Testimonial struct {
	Name    string `json:"name"`
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	Project string `json:"project"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Area struct {
	Slug           string      `json:"slug"`
	Name           string      `json:"name"`
	FullName       string      `json:"fullName"`
	Description    string      `json:"description"`
	Population     string      `json:"population"`
	HeroImage      string      `json:"heroImage,omitempty"`
	IntroText      string      `json:"introText,omitempty"`
	SEOTitle       string      `json:"seoTitle,omitempty"`
	SEODescription string      `json:"seoDescription,omitempty"`
	Neighborhoods  []string    `json:"neighborhoods"`
	Services       []string    `json:"services"`
	Testimonial    Testimonial `json:"testimonial"`
	FAQs           []QA        `json:"faqs"`
	Coordinates    Coordinates `json:"coordinates"`
}

type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

type Link struct {
	Label       string `json:"label"`
	Href        string `json:"href"`
	Description string `json:"description,omitempty"`
}

type MenuItem struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	Visible  bool   `json:"visible"`
	Children []Link `json:"children,omitempty"`
}

type FooterMenu struct {
	Company  []Link `json:"company"`
	Services []Link `json:"services"`
	Areas    []Link `json:"areas"`
}

type Features struct {
	StoreEnabled bool `json:"storeEnabled"`
}

type Navigation struct {
	MainMenu   []MenuItem `json:"mainMenu"`
	FooterMenu FooterMenu `json:"footerMenu"`
	Features   *Features  `json:"features,omitempty"`
}

type GalleryItem struct {
	URL         string `json:"url"`
	Caption     string `json:"caption,omitempty"`
	Location    string `json:"location,omitempty"`
	ProjectType string `json:"projectType,omitempty"`
}

type VisualAssets struct {
	HeroGallery         []GalleryItem `json:"heroGallery"`
	DefaultServiceImage string        `json:"defaultServiceImage"`
	DefaultAreaImage    string        `json:"defaultAreaImage"`
}

type Project struct {
	ID               string   `json:"id,omitempty"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Category         string   `json:"category"`
	ProjectType      string   `json:"projectType"`
	Location         string   `json:"location"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	CompletedDate    string   `json:"completedDate"`
	DurationDays     int      `json:"durationDays,omitempty"`
	CostRange        string   `json:"costRange,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	BeforeImageURL   string   `json:"beforeImageUrl,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	Story            string   `json:"story,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
	Featured         bool     `json:"featured,omitempty"`
	ServiceSlug      string   `json:"serviceSlug,omitempty"`
}
