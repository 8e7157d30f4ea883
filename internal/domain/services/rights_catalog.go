package services

import (
	"strings"

	"legal-literacy-portal/internal/domain/models"
)

// RightsCatalog is the read-only set of rights explainers
type RightsCatalog struct {
	categories []models.RightsCategory
	bySlug     map[string]int
}

// NewRightsCatalog builds the catalog from the built-in categories
func NewRightsCatalog() *RightsCatalog {
	c := &RightsCatalog{
		categories: rightsCategories,
		bySlug:     make(map[string]int, len(rightsCategories)),
	}
	for i, cat := range rightsCategories {
		c.bySlug[cat.Slug] = i
	}
	return c
}

// Categories lists every category without its topics
func (c *RightsCatalog) Categories() []models.RightsCategory {
	out := make([]models.RightsCategory, len(c.categories))
	for i, cat := range c.categories {
		cat.Topics = nil
		out[i] = cat
	}
	return out
}

// Category returns one category with its topics
func (c *RightsCatalog) Category(slug string) (models.RightsCategory, error) {
	i, ok := c.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return models.RightsCategory{}, models.NewNotFound("rights category " + slug)
	}
	cat := c.categories[i]
	topics := make([]models.RightsTopic, len(cat.Topics))
	for j, t := range cat.Topics {
		t.Points = append([]string(nil), t.Points...)
		topics[j] = t
	}
	cat.Topics = topics
	return cat, nil
}

var rightsCategories = []models.RightsCategory{
	{
		Slug:        "tenant",
		Title:       "Tenant Rights",
		Description: "What the Rental Housing Act guarantees you as a tenant.",
		Topics: []models.RightsTopic{
			{
				Slug:    "deposits",
				Title:   "Deposits",
				Summary: "Your deposit belongs to you until the lease ends and the unit has been inspected.",
				Points: []string{
					"The landlord must keep the deposit in an interest-bearing account.",
					"A joint inspection must be done when you move in and when you move out.",
					"The deposit and interest, less proven damage, must be refunded within 14 days of the lease ending.",
				},
			},
			{
				Slug:    "eviction",
				Title:   "Eviction",
				Summary: "Only a court order can lawfully remove you from your home.",
				Points: []string{
					"Changing locks or cutting water and electricity to force you out is unlawful.",
					"You must receive written notice of the court application.",
					"The court must consider whether alternative accommodation is available.",
				},
			},
			{
				Slug:    "repairs",
				Title:   "Repairs and habitability",
				Summary: "The landlord must keep the property fit to live in.",
				Points: []string{
					"Report defects in writing and keep a copy.",
					"The Rental Housing Tribunal handles unresolved disputes free of charge.",
				},
			},
		},
	},
	{
		Slug:        "employment",
		Title:       "Employment Rights",
		Description: "Basic protections under the Basic Conditions of Employment Act and the Labour Relations Act.",
		Topics: []models.RightsTopic{
			{
				Slug:    "contracts",
				Title:   "Written particulars",
				Summary: "You are entitled to written details of your employment.",
				Points: []string{
					"Your employer must give you your job title, hours, pay and leave in writing.",
					"Deductions from your pay need your written consent or a legal basis.",
				},
			},
			{
				Slug:    "dismissal",
				Title:   "Unfair dismissal",
				Summary: "A dismissal must have a fair reason and follow a fair procedure.",
				Points: []string{
					"You may refer an unfair dismissal dispute to the CCMA within 30 days.",
					"You have the right to be heard before you are dismissed.",
				},
			},
			{
				Slug:    "leave",
				Title:   "Leave",
				Summary: "Annual, sick and family responsibility leave are minimum entitlements.",
				Points: []string{
					"Full-time employees get at least 21 consecutive days of annual leave per cycle.",
					"Sick leave is 30 days over a three-year cycle.",
				},
			},
		},
	},
	{
		Slug:        "consumer",
		Title:       "Consumer Rights",
		Description: "Protections under the Consumer Protection Act and the National Credit Act.",
		Topics: []models.RightsTopic{
			{
				Slug:    "cooling-off",
				Title:   "Cooling-off period",
				Summary: "Some agreements can be cancelled shortly after signing.",
				Points: []string{
					"Direct marketing sales may be cancelled within 5 business days.",
					"Credit agreements signed away from the lender's premises may be cancelled within 5 business days.",
				},
			},
			{
				Slug:    "reckless-lending",
				Title:   "Reckless lending",
				Summary: "A lender must check that you can afford a loan before granting it.",
				Points: []string{
					"Every credit provider must be registered with the National Credit Regulator.",
					"A court may set aside a reckless credit agreement.",
					"Lenders may not keep your bank card, ID document or PIN.",
				},
			},
			{
				Slug:    "plain-language",
				Title:   "Plain language",
				Summary: "Consumer contracts must be written so that an ordinary person can understand them.",
				Points: []string{
					"Unfair, unreasonable or unjust terms are prohibited.",
				},
			},
		},
	},
	{
		Slug:        "social-grants",
		Title:       "Social Grant Rights",
		Description: "How SASSA grants are protected from abuse.",
		Topics: []models.RightsTopic{
			{
				Slug:    "deductions",
				Title:   "Unauthorised deductions",
				Summary: "Nobody may take money from your grant without your informed consent.",
				Points: []string{
					"Report unauthorised debit orders on your grant account to SASSA on 0800 60 10 11.",
					"You may cancel a debit order you did not agree to through your bank.",
				},
			},
			{
				Slug:    "card-safety",
				Title:   "Your SASSA card",
				Summary: "Your card and PIN are yours alone.",
				Points: []string{
					"Never hand your card or PIN to a lender or shopkeeper as security.",
					"Replacement cards are issued free of charge at SASSA offices.",
				},
			},
		},
	},
	{
		Slug:        "inheritance",
		Title:       "Inheritance Rights",
		Description: "What happens to an estate with or without a will.",
		Topics: []models.RightsTopic{
			{
				Slug:    "valid-will",
				Title:   "A valid will",
				Summary: "A will must be in writing and signed in front of two competent witnesses.",
				Points: []string{
					"The testator signs every page.",
					"Witnesses should not be beneficiaries under the will.",
				},
			},
			{
				Slug:    "intestate",
				Title:   "Dying without a will",
				Summary: "The Intestate Succession Act decides who inherits.",
				Points: []string{
					"A surviving spouse and children inherit first.",
					"Estates must be reported to the Master of the High Court.",
				},
			},
		},
	},
}
