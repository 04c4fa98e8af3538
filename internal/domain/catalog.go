package domain

// Category is the pricing/eligibility class of an event.
type Category string

const (
	CategoryIEEE Category = "IEEE"
	CategoryISTE Category = "ISTE"
	CategoryIEDC Category = "IEDC"
	CategoryOpen Category = "OPEN"
)

// CatalogEntry is one event in the static event catalog. IEEE events carry a
// member/non-member price pair; all other categories carry a single flat
// price. Prices are rupee amounts kept as strings because they feed URI
// parameters and display text unchanged.
// swagger:model CatalogEntry
type CatalogEntry struct {
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Category       Category `json:"category"`
	Price          string   `json:"price,omitempty"`
	MemberPrice    string   `json:"member_price,omitempty"`
	NonMemberPrice string   `json:"non_member_price,omitempty"`
}

// Catalog is the read-only set of known events. It is configuration, not
// persisted data.
type Catalog []CatalogEntry

// Find returns the entry whose name exactly equals name.
func (c Catalog) Find(name string) (*CatalogEntry, bool) {
	for i := range c {
		if c[i].Name == name {
			return &c[i], true
		}
	}
	return nil, false
}

// FindBySlug returns the entry with the given slug.
func (c Catalog) FindBySlug(slug string) (*CatalogEntry, bool) {
	for i := range c {
		if c[i].Slug == slug {
			return &c[i], true
		}
	}
	return nil, false
}

// DefaultCatalog returns the Colloquium 2026 event catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Robowar", Slug: "robowar", Category: CategoryIEEE, MemberPrice: "250", NonMemberPrice: "350"},
		{Name: "ACME", Slug: "acme", Category: CategoryISTE, Price: "150"},
		{Name: "Bridge Modelling", Slug: "bridge", Category: CategoryISTE, Price: "200"},
		{Name: "Automotive Biz Conclave", Slug: "automotive", Category: CategoryIEDC, Price: "200"},
		{Name: "Reverse Marketing", Slug: "marketing", Category: CategoryIEDC, Price: "150"},
		{Name: "MUN (ISTE)", Slug: "mun", Category: CategoryISTE, Price: "250"},
		{Name: "Debate", Slug: "debate", Category: CategoryOpen, Price: "100"},
		{Name: "Prompt Writing", Slug: "prompt", Category: CategoryOpen, Price: "100"},
		{Name: "Program Debugging", Slug: "debug", Category: CategoryIEEE, MemberPrice: "100", NonMemberPrice: "150"},
		{Name: "Circuit Designing", Slug: "circuit", Category: CategoryIEEE, MemberPrice: "100", NonMemberPrice: "150"},
		{Name: "AutoCAD Competition", Slug: "autocad", Category: CategoryISTE, Price: "150"},
		{Name: "AI Workshop", Slug: "workshop", Category: CategoryIEEE, MemberPrice: "300", NonMemberPrice: "400"},
	}
}
