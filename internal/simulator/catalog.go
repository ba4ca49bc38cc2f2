package simulator

import (
	"fmt"
	"slices"
	"strings"

	"evagobi/pkg/contracts/domain"
)

// Profile selects the market catalog of a run
type Profile string

const (
	// ProfileStandard is the seven-country EU catalog
	ProfileStandard Profile = "standard"
	// ProfileGlobal adds the Mojo Rental acquisition and its impact dataset
	ProfileGlobal Profile = "global"
	// ProfilePartner adds local partners and per-language keywords
	ProfilePartner Profile = "partner"
)

// Market types
const (
	PrimaryMarket   = "Primary Market"
	ExpansionMarket = "Expansion Market"
)

// Market is a country or region the business sells in
type Market struct {
	Name     string   `json:"name"`
	Type     string   `json:"type,omitempty"`
	Cities   []string `json:"cities,omitempty"`
	Language string   `json:"language,omitempty"`
	Partners []string `json:"partners,omitempty"`
	// Integrated markets get the traffic and revenue uplift after the event date
	Integrated bool `json:"integrated,omitempty"`
}

// Catalog holds the dimension values one profile generates
type Catalog struct {
	Profile   Profile
	Markets   []Market
	Campaigns []string
	// Keywords per market language; "" is used for markets without one
	Keywords    map[string][]string
	AdGroups    []string
	Platforms   []string
	Competitors []string
	Devices     []string
	// EventBrand marks the campaigns and competitors affected by the event
	EventBrand string
	// Offices are distribution offices without their own traffic
	Offices []string
	// Extra lists the profile datasets generated besides domain.DatasetNames
	Extra []string
}

// Dimension values of the standard profile
var (
	Countries = []string{"Germany", "Netherlands", "Belgium", "France", "UK", "Austria", "Switzerland"}

	Campaigns = []string{
		"Summer Festival Campaign", "Corporate Events Q1", "Sports Events",
		"Music Festivals", "Trade Shows", "Wedding Season", "Holiday Events",
		"Construction Safety", "Crowd Control", "VIP Events",
	}

	Keywords = []string{
		"Absperrgitter mieten", "event barrier hire", "crowd control barriers",
		"festival fencing", "construction barriers", "safety barriers",
		"event infrastructure", "temporary fencing", "barrier rental",
		"crowd management", "event security", "temporary barriers",
	}

	AdGroups = []string{
		"Barrier Rental", "Event Safety", "Crowd Control", "Construction Barriers",
		"Festival Equipment", "Corporate Events", "Sports Events", "Music Events",
	}

	Platforms   = []string{"Facebook", "Instagram", "LinkedIn", "Twitter"}
	Competitors = []string{"Competitor A", "Competitor B", "Competitor C", "Competitor D"}
	Devices     = []string{"Desktop", "Mobile", "Tablet"}
)

// competitorKeywords is the number of leading keywords tracked for competitors
const competitorKeywords = 5

var distributionOffices = []string{
	"Singapore", "Dubai", "Hong Kong", "Tokyo", "Mumbai",
	"São Paulo", "Mexico City", "Cape Town", "Stockholm", "Warsaw",
	"Prague", "Vienna",
}

var globalMarkets = []Market{
	{Name: "Germany", Type: PrimaryMarket, Integrated: true,
		Cities: []string{"Berlin", "Hamburg", "Munich", "Frankfurt", "Cologne"}},
	{Name: "Netherlands", Type: PrimaryMarket, Integrated: true,
		Cities: []string{"Amsterdam", "Rotterdam", "The Hague"}},
	{Name: "England", Type: PrimaryMarket, Integrated: true,
		Cities: []string{"London", "Manchester"}},
	{Name: "North America", Type: ExpansionMarket,
		Cities: []string{"New York", "Los Angeles", "Toronto", "Vancouver"}},
	{Name: "Australia", Type: ExpansionMarket,
		Cities: []string{"Sydney", "Melbourne", "Brisbane"}},
	{Name: "Croatia", Type: PrimaryMarket, Integrated: true,
		Cities: []string{"Zagreb", "Split", "Rijeka"}},
}

var partnerMarkets = []Market{
	{Name: "Germany", Type: PrimaryMarket, Language: "de", Integrated: true,
		Cities:   []string{"Berlin", "Hamburg", "Munich", "Frankfurt", "Cologne"},
		Partners: []string{"Local Partner A", "Local Partner B"}},
	{Name: "Netherlands", Type: PrimaryMarket, Language: "nl", Integrated: true,
		Cities:   []string{"Amsterdam", "Rotterdam", "The Hague"},
		Partners: []string{"Dutch Partner X", "Dutch Partner Y"}},
	{Name: "England", Type: PrimaryMarket, Language: "en", Integrated: true,
		Cities:   []string{"London", "Manchester"},
		Partners: []string{"UK Partner 1", "UK Partner 2"}},
	{Name: "North America", Type: ExpansionMarket, Language: "en", Integrated: true,
		Cities:   []string{"New York", "Los Angeles", "Toronto", "Vancouver"},
		Partners: []string{"NA Partner Alpha", "NA Partner Beta"}},
	{Name: "Australia", Type: ExpansionMarket, Language: "en", Integrated: true,
		Cities:   []string{"Sydney", "Melbourne", "Brisbane"},
		Partners: []string{"AUS Partner One", "AUS Partner Two"}},
}

var coreCampaigns = []string{
	"EVAGO Event Infrastructure", "EVAGO Crowd Control", "EVAGO Construction Safety",
	"EVAGO Festival Equipment", "EVAGO Corporate Events", "EVAGO Sports Events",
}

var coreAdGroups = []string{
	"EVAGO Barrier Rental", "EVAGO Event Safety", "EVAGO Crowd Control",
	"EVAGO Construction Barriers", "EVAGO Festival Equipment",
}

var languageKeywords = map[string][]string{
	"de": {
		"Absperrgitter mieten", "Veranstaltungsbarrieren", "Crowd Control Barrieren",
		"Festival Absperrungen", "Bauabsperrungen", "Sicherheitsbarrieren",
		"Event Infrastruktur", "Temporäre Zäune", "Barrieren Vermietung",
		"Menschenmengen Management", "Event Sicherheit", "Temporäre Barrieren",
	},
	"nl": {
		"afzettingen huren", "evenement barrières", "crowd control barrières",
		"festival afzettingen", "bouwafzettingen", "veiligheidsbarrières",
		"evenement infrastructuur", "tijdelijke hekken", "barrières verhuur",
		"menigte beheer", "evenement beveiliging", "tijdelijke barrières",
	},
	"en": {
		"event barrier hire", "crowd control barriers", "festival fencing",
		"construction barriers", "safety barriers", "event infrastructure",
		"temporary fencing", "barrier rental", "crowd management",
		"event security", "temporary barriers", "event equipment hire",
	},
}

func marketsOf(countries []string) []Market {
	markets := make([]Market, len(countries))
	for i, c := range countries {
		markets[i] = Market{Name: c}
	}
	return markets
}

// CatalogFor returns the catalog of profile. An empty profile is standard.
func CatalogFor(profile Profile) (Catalog, error) {
	switch profile {
	case "", ProfileStandard:
		return Catalog{
			Profile:     ProfileStandard,
			Markets:     marketsOf(Countries),
			Campaigns:   Campaigns,
			Keywords:    map[string][]string{"": Keywords},
			AdGroups:    AdGroups,
			Platforms:   Platforms,
			Competitors: Competitors,
			Devices:     Devices,
		}, nil
	case ProfileGlobal:
		return Catalog{
			Profile: ProfileGlobal,
			Markets: globalMarkets,
			Campaigns: append(slices.Clone(coreCampaigns),
				"Mojo-EVAGO Joint Events", "Mojo Equipment Integration", "EVAGO-Mojo Partnership",
				"Unified Rental Solutions", "Mojo Legacy Support", "EVAGO-Mojo Brand Transition"),
			Keywords: map[string][]string{"": append(slices.Clone(Keywords),
				"mojo rental", "mojo event equipment", "mojo barrier hire",
				"mojo crowd control", "mojo festival equipment", "mojo construction barriers",
				"evago mojo rental", "evago mojo barriers", "evago mojo events",
				"unified event rental", "evago mojo partnership", "mojo evago integration")},
			AdGroups: append(slices.Clone(coreAdGroups),
				"Mojo Equipment", "Mojo Event Rental", "Mojo Crowd Control",
				"EVAGO-Mojo Partnership", "Unified Rental Solutions"),
			Platforms:   Platforms,
			Competitors: []string{"StagePro DE", "UK Event Hire", "BarrierPro USA", "Mojo Legacy"},
			Devices:     Devices,
			EventBrand:  "Mojo",
			Offices:     distributionOffices,
			Extra:       []string{domain.DatasetAcquisitionImpact},
		}, nil
	case ProfilePartner:
		return Catalog{
			Profile: ProfilePartner,
			Markets: partnerMarkets,
			Campaigns: append(slices.Clone(coreCampaigns),
				"Partner Joint Events", "Partner Equipment Integration", "EVAGO-Partner Partnership",
				"Unified Rental Solutions", "Partner Support", "EVAGO-Partner Brand Transition"),
			Keywords: languageKeywords,
			AdGroups: append(slices.Clone(coreAdGroups),
				"Partner Equipment", "Partner Event Rental", "Partner Crowd Control",
				"EVAGO-Partner Partnership", "Unified Rental Solutions"),
			Platforms:   Platforms,
			Competitors: Competitors,
			Devices:     Devices,
			EventBrand:  "Partner",
			Offices:     distributionOffices,
			Extra:       []string{domain.DatasetPartnerPerformance},
		}, nil
	}
	return Catalog{}, fmt.Errorf("unknown simulation profile %q", profile)
}

// Countries returns the market names in catalog order
func (c Catalog) Countries() []string {
	names := make([]string, len(c.Markets))
	for i, m := range c.Markets {
		names[i] = m.Name
	}
	return names
}

// KeywordsFor returns the keywords tracked in market's language
func (c Catalog) KeywordsFor(m Market) []string {
	if kw, ok := c.Keywords[m.Language]; ok {
		return kw
	}
	return c.Keywords[""]
}

// AllKeywords returns every distinct keyword, markets in catalog order
func (c Catalog) AllKeywords() []string {
	var all []string
	for _, m := range c.Markets {
		for _, kw := range c.KeywordsFor(m) {
			if !slices.Contains(all, kw) {
				all = append(all, kw)
			}
		}
	}
	return all
}

// CompetitorKeywords returns the leading keywords tracked for competitors
func (c Catalog) CompetitorKeywords() []string {
	all := c.AllKeywords()
	return all[:min(competitorKeywords, len(all))]
}

// EventBranded reports whether a campaign or competitor carries the event brand
func (c Catalog) EventBranded(name string) bool {
	return c.EventBrand != "" && strings.Contains(strings.ToLower(name), strings.ToLower(c.EventBrand))
}

// Datasets lists the datasets the profile generates, in generation order
func (c Catalog) Datasets() []string {
	names := slices.Clone(domain.DatasetNames)
	for _, name := range domain.ProfileDatasetNames {
		if slices.Contains(c.Extra, name) {
			names = append(names, name)
		}
	}
	return names
}

// Locations maps every market with known cities to them
func (c Catalog) Locations() map[string][]string {
	var locs map[string][]string
	for _, m := range c.Markets {
		if len(m.Cities) == 0 {
			continue
		}
		if locs == nil {
			locs = make(map[string][]string)
		}
		locs[m.Name] = m.Cities
	}
	return locs
}
