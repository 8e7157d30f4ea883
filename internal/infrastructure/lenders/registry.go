package lenders

import (
	"sort"
	"strings"
	"sync"

	"legal-literacy-portal/internal/domain/models"
)

// Registry holds the known NCR registered lenders and the safer alternatives offered to grant recipients
type Registry struct {
	lenders      map[string]*models.Lender
	byAlias      map[string]*models.Lender
	alternatives []models.Alternative
	mu           sync.RWMutex
}

// NewRegistry creates a registry loaded with the built-in definitions
func NewRegistry() *Registry {
	r := &Registry{
		lenders: make(map[string]*models.Lender),
		byAlias: make(map[string]*models.Lender),
	}
	r.loadLenders()
	r.loadAlternatives()
	return r
}

// Lookup finds a lender by its name or any alias, ignoring case
func (r *Registry) Lookup(name string) *models.Lender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byAlias[normalize(name)]
}

// Find returns the first registered lender mentioned anywhere in text
func (r *Registry) Find(text string) *models.Lender {
	lower := strings.ToLower(text)
	for _, l := range r.All() {
		for _, n := range append([]string{l.Name}, l.Aliases...) {
			if strings.Contains(lower, normalize(n)) {
				return l
			}
		}
	}
	return nil
}

// All returns every lender sorted by name
func (r *Registry) All() []*models.Lender {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Lender, 0, len(r.lenders))
	for _, l := range r.lenders {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every lender name and alias, lowercased, in a stable order
func (r *Registry) Names() []string {
	var names []string
	for _, l := range r.All() {
		names = append(names, normalize(l.Name))
		for _, a := range l.Aliases {
			names = append(names, normalize(a))
		}
	}
	return names
}

// Count returns the number of lenders
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lenders)
}

// Alternatives returns the help services in display order
func (r *Registry) Alternatives() []models.Alternative {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Alternative, len(r.alternatives))
	copy(out, r.alternatives)
	return out
}

// AlternativeLines renders the alternatives as one line each, for recommendation text
func (r *Registry) AlternativeLines() []string {
	alts := r.Alternatives()
	lines := make([]string, 0, len(alts))
	for _, a := range alts {
		lines = append(lines, a.Name+": "+a.Contact)
	}
	return lines
}

func (r *Registry) addLender(l *models.Lender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalize(l.Name)
	r.lenders[key] = l
	r.byAlias[key] = l
	for _, a := range l.Aliases {
		r.byAlias[normalize(a)] = l
	}
}

func (r *Registry) loadLenders() {
	lenders := []*models.Lender{
		{Name: "African Bank", NCRNumber: "NCRCP2", Website: "https://www.africanbank.co.za", MaxInterestPct: 27.5},
		{Name: "Capitec Bank", Aliases: []string{"Capitec"}, NCRNumber: "NCRCP13", Website: "https://www.capitecbank.co.za", MaxInterestPct: 27.5},
		{Name: "Absa Bank", Aliases: []string{"Absa"}, NCRNumber: "NCRCP7", Website: "https://www.absa.co.za", MaxInterestPct: 27.5},
		{Name: "Standard Bank", NCRNumber: "NCRCP15", Website: "https://www.standardbank.co.za", MaxInterestPct: 27.5},
		{Name: "First National Bank", Aliases: []string{"FNB"}, NCRNumber: "NCRCP20", Website: "https://www.fnb.co.za", MaxInterestPct: 27.5},
		{Name: "Nedbank", NCRNumber: "NCRCP16", Website: "https://www.nedbank.co.za", MaxInterestPct: 27.5},
		{Name: "Old Mutual Finance", Aliases: []string{"Old Mutual"}, NCRNumber: "NCRCP3", Website: "https://www.oldmutual.co.za", MaxInterestPct: 27.5},
		{Name: "DirectAxis", NCRNumber: "NCRCP50", Website: "https://www.directaxis.co.za", MaxInterestPct: 27.5},
		{Name: "FinChoice", NCRNumber: "NCRCP5", Website: "https://www.finchoice.mobi", MaxInterestPct: 27.5},
		{Name: "Sanlam Personal Loans", Aliases: []string{"Sanlam"}, NCRNumber: "NCRCP24", Website: "https://www.sanlam.co.za", MaxInterestPct: 27.5},
	}
	for _, l := range lenders {
		r.addLender(l)
	}
}

func (r *Registry) loadAlternatives() {
	r.alternatives = []models.Alternative{
		{
			Name:        "SASSA Social Relief of Distress",
			Kind:        models.AlternativeGovernment,
			Description: "Temporary assistance for people in immediate need, applied for at any SASSA office",
			Contact:     "0800 60 10 11",
		},
		{
			Name:        "National Credit Regulator",
			Kind:        models.AlternativeRegulator,
			Description: "Check whether a lender is registered and lay a complaint about reckless lending",
			Contact:     "0860 627 627",
		},
		{
			Name:        "Legal Aid South Africa",
			Kind:        models.AlternativeAdvice,
			Description: "Free legal advice on debt, garnishee orders and unfair loan agreements",
			Contact:     "0800 110 110",
		},
		{
			Name:        "Community savings club (stokvel)",
			Kind:        models.AlternativeCredit,
			Description: "Member run savings groups that lend to members without interest or with low interest",
			Contact:     "Ask at your local community centre",
		},
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
