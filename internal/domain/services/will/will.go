package will

import (
	"fmt"
	"strings"

	"legal-literacy-portal/internal/domain/models"
)

// MinWitnesses is the number of witnesses a will must name
const MinWitnesses = 2

// Missing requirement labels reported by Validate
const (
	MissingName          = "testator name is required"
	MissingAddress       = "address is required"
	MissingBeneficiaries = "at least one beneficiary is required"
	MissingExecutor      = "executor name is required"
	MissingWitnesses     = "at least two witness names are required"
)

// Validate lists every missing requirement at once. An empty result means the will can be generated.
func Validate(doc models.WillDocument) []string {
	missing := []string{}
	if blank(doc.TestatorName) {
		missing = append(missing, MissingName)
	}
	if blank(doc.Address) {
		missing = append(missing, MissingAddress)
	}
	if len(namedBeneficiaries(doc.Beneficiaries)) == 0 {
		missing = append(missing, MissingBeneficiaries)
	}
	if blank(doc.ExecutorName) {
		missing = append(missing, MissingExecutor)
	}
	if len(nonBlank(doc.Witnesses)) < MinWitnesses {
		missing = append(missing, MissingWitnesses)
	}
	return missing
}

// Layout arranges the will into its fixed section order. Call Validate first.
func Layout(doc models.WillDocument) []models.WillSection {
	name := strings.TrimSpace(doc.TestatorName)
	beneficiaries := namedBeneficiaries(doc.Beneficiaries)
	assets := nonBlank(doc.Assets)
	witnesses := nonBlank(doc.Witnesses)

	sections := make([]models.WillSection, 0, 8)

	sections = append(sections, models.WillSection{
		Heading:    "LAST WILL AND TESTAMENT",
		Paragraphs: []string{"of " + strings.ToUpper(name)},
	})

	identity := "I, " + name
	if id := strings.TrimSpace(doc.IDNumber); id != "" {
		identity += ", identity number " + id
	}
	identity += ", of " + strings.TrimSpace(doc.Address)
	if ms := strings.TrimSpace(doc.MaritalStatus); ms != "" {
		identity += ", " + strings.ToLower(ms)
	}
	sections = append(sections, models.WillSection{
		Heading: "RECITALS",
		Paragraphs: []string{
			identity + ", being of sound mind, declare this to be my last will and testament.",
			"I revoke all previous wills, codicils and other testamentary writings made by me.",
		},
	})

	assetParas := []string{"I own, among other things, the following assets:"}
	for i, a := range assets {
		assetParas = append(assetParas, fmt.Sprintf("%d. %s", i+1, a))
	}
	if len(assets) == 0 {
		assetParas = []string{"I make no specific bequest of assets. My whole estate is dealt with in Article II."}
	}
	sections = append(sections, models.WillSection{Heading: "ARTICLE I - ASSETS", Paragraphs: assetParas})

	benParas := []string{"I leave my estate to the following beneficiaries:"}
	for i, b := range beneficiaries {
		benParas = append(benParas, BeneficiaryLine(i+1, b))
	}
	sections = append(sections, models.WillSection{Heading: "ARTICLE II - BENEFICIARIES", Paragraphs: benParas})

	sections = append(sections, models.WillSection{
		Heading: "ARTICLE III - EXECUTOR",
		Paragraphs: []string{
			fmt.Sprintf("I nominate %s as executor of my estate, with full power of assumption.", strings.TrimSpace(doc.ExecutorName)),
			"I direct that my executor be exempt from furnishing security to the Master of the High Court.",
		},
	})

	sections = append(sections, models.WillSection{
		Heading: "ARTICLE IV - GENERAL PROVISIONS",
		Paragraphs: []string{
			"Should any beneficiary die before me, that beneficiary's share shall pass to their descendants in equal shares, failing whom it shall be divided among the remaining beneficiaries in proportion to their shares.",
			"Any benefit under this will is excluded from any community of property or accrual system of a beneficiary's marriage.",
			"This will is governed by the law of the Republic of South Africa.",
		},
	})

	sigParas := []string{
		"SIGNED at ____________________ on this ____ day of ____________________ 20____, in the presence of the undersigned witnesses, all being present at the same time.",
		"______________________________",
		"TESTATOR: " + name,
	}
	for i, w := range witnesses {
		sigParas = append(sigParas,
			"______________________________",
			fmt.Sprintf("WITNESS %d: %s", i+1, w),
		)
	}
	sections = append(sections, models.WillSection{Heading: "SIGNATURES", Paragraphs: sigParas})

	sections = append(sections, models.WillSection{
		Heading: "AFFIDAVIT BEFORE A COMMISSIONER OF OATHS",
		NewPage: true,
		Paragraphs: []string{
			fmt.Sprintf("I, %s, declare under oath that the document to which this affidavit is attached is my last will, that I signed it of my own free will, and that I understand its contents.", name),
			"______________________________",
			"DEPONENT",
			"Sworn to and signed before me at ____________________ on ____________________, the deponent having acknowledged that they know and understand the contents of this affidavit.",
			"______________________________",
			"COMMISSIONER OF OATHS",
			"Full names: ____________________  Designation: ____________________  Address: ____________________",
		},
	})

	return sections
}

// BeneficiaryLine renders one beneficiary with name, relationship and share verbatim
func BeneficiaryLine(n int, b models.Beneficiary) string {
	return fmt.Sprintf("%d. %s (%s): %s", n, strings.TrimSpace(b.Name), strings.TrimSpace(b.Relationship), strings.TrimSpace(b.Share))
}

func namedBeneficiaries(in []models.Beneficiary) []models.Beneficiary {
	out := make([]models.Beneficiary, 0, len(in))
	for _, b := range in {
		if !blank(b.Name) {
			out = append(out, b)
		}
	}
	return out
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
