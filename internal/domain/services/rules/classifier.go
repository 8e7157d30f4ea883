package rules

import (
	"strings"

	"legal-literacy-portal/internal/domain/models"
)

type documentClass struct {
	docType  models.DocumentType
	keywords Lexicon
}

// documentClasses are checked in this order and the first hit wins
var documentClasses = []documentClass{
	{models.DocumentTypeRental, NewLexicon("lease", "tenant", "landlord", "rental", "lessee", "lessor")},
	{models.DocumentTypeEmployment, NewLexicon("employment", "employee", "employer", "salary", "job offer", "remuneration")},
	{models.DocumentTypeFinancial, NewLexicon("loan", "credit", "interest rate", "repayment", "debt", "borrower")},
	{models.DocumentTypeInsurance, NewLexicon("insurance", "policyholder", "premium", "insured", "insurer", "beneficiary")},
	{models.DocumentTypePurchase, NewLexicon("purchase", "deed of sale", "buyer", "seller", "purchaser", "offer to purchase")},
	{models.DocumentTypeService, NewLexicon("service agreement", "services", "contractor", "service provider", "scope of work")},
}

// ClassifyDocument returns the first document class with any keyword hit, or general
func ClassifyDocument(text string) models.DocumentType {
	lower := strings.ToLower(text)
	for _, c := range documentClasses {
		if len(c.keywords.matchLower(lower)) > 0 {
			return c.docType
		}
	}
	return models.DocumentTypeGeneral
}
